package core

import (
	"errors"
	"fmt"
)

// Base errors for each failure class. Packages wrap these in their own
// sentinels so Classify can recover the class from any returned error.
var (
	ErrValidation    = errors.New("request validation failed")
	ErrPipeline      = errors.New("pipeline failed")
	ErrResourceLimit = errors.New("resource limit exceeded")
	ErrDependency    = errors.New("dependency failure")
	ErrCredential    = errors.New("credential failure")
)

var (
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrValidation)
	ErrMalformedMessage   = fmt.Errorf("%w: malformed message", ErrValidation)
)

// ErrorKind is the failure class of an error, used for logs, metrics and
// retry decisions.
type ErrorKind string

const (
	KindNone              ErrorKind = "none"
	KindRequestValidation ErrorKind = "request_validation"
	KindPipelineFatal     ErrorKind = "pipeline_fatal"
	KindResourceLimit     ErrorKind = "resource_limit"
	KindDependencyFailure ErrorKind = "dependency_failure"
	KindCredentialFailure ErrorKind = "credential_failure"
	KindUnknown           ErrorKind = "unknown"
)

// Classify returns the failure class of err.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindRequestValidation
	case errors.Is(err, ErrResourceLimit):
		return KindResourceLimit
	case errors.Is(err, ErrCredential):
		return KindCredentialFailure
	case errors.Is(err, ErrPipeline):
		return KindPipelineFatal
	case errors.Is(err, ErrDependency):
		return KindDependencyFailure
	default:
		return KindUnknown
	}
}

// Retryable reports whether a failure of this kind may succeed on a later
// attempt without any change to the request.
func (k ErrorKind) Retryable() bool {
	return k == KindDependencyFailure || k == KindCredentialFailure
}
