package core

import "fmt"

// Version is a dialect of the snippet language.
type Version string

const (
	V1 Version = "1.0"
	V2 Version = "1.1"
)

// Versions lists every supported dialect.
var Versions = []Version{V1, V2}

// ParseVersion maps a user supplied version string to a known dialect.
func ParseVersion(s string) (Version, error) {
	switch Version(s) {
	case V1, V2:
		return Version(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
	}
}

func (v Version) String() string {
	return string(v)
}
