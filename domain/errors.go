package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds a run can surface. Callers use
// errors.Is to select policy; see the constructors below for wrapping.
var (
	// ErrMalformedOutput marks tool output that could not be repaired
	// into valid JSON. Whether this is fatal to the whole run or only
	// to one file is the caller's policy.
	ErrMalformedOutput = errors.New("malformed tool output")

	// ErrReferenceStateUnavailable marks a reference branch/state that
	// could not be materialized for a "before" run. Always fatal to the
	// dual run: empty "before" data would be indistinguishable from
	// "no prior issues".
	ErrReferenceStateUnavailable = errors.New("reference state unavailable")

	// ErrToolInvocationFailed marks an external tool process that failed
	// to start or exited abnormally for reasons unrelated to its output.
	ErrToolInvocationFailed = errors.New("tool invocation failed")

	// ErrConfig marks an invalid or unreadable configuration.
	ErrConfig = errors.New("configuration error")
)

// NewMalformedOutputError wraps a JSON repair failure for one file.
func NewMalformedOutputError(file string, err error) error {
	return fmt.Errorf("%w for %s: %v", ErrMalformedOutput, file, err)
}

// NewReferenceStateError wraps a failed reference checkout or restore.
func NewReferenceStateError(ref string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrReferenceStateUnavailable, ref, err)
}

// NewToolInvocationError wraps a failed tool process for one file.
func NewToolInvocationError(file string, err error) error {
	return fmt.Errorf("%w for %s: %v", ErrToolInvocationFailed, file, err)
}

// NewConfigError wraps a configuration load or validation failure.
func NewConfigError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfig, msg, err)
}
