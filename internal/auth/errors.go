package auth

import (
	"fmt"

	"github.com/sevigo/snippet-engine/internal/core"
)

// ErrCredential is returned when no valid access token can be obtained.
var ErrCredential = fmt.Errorf("%w: cannot obtain access token", core.ErrCredential)
