package asset

import (
	"errors"
	"fmt"

	"github.com/sevigo/snippet-engine/internal/core"
)

var (
	// ErrNotFound is returned when the asset service has no content under a key.
	ErrNotFound = fmt.Errorf("%w: asset not found", core.ErrDependency)

	// ErrUnavailable covers transport failures and unexpected status codes.
	ErrUnavailable = fmt.Errorf("%w: asset service unavailable", core.ErrDependency)

	// ErrTooLarge is returned when stored content exceeds the size Fetch
	// accepts. Retrying cannot help.
	ErrTooLarge = fmt.Errorf("%w: asset content too large", core.ErrValidation)

	errEmptyKey = errors.New("container and key are required")
)
