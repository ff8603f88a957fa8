package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrExecution             = errors.New("execution error")
	ErrNoShape               = errors.New("no shape has been created")
	ErrMalformedDocument     = errors.New("malformed document")
	ErrCapabilityUnavailable = errors.New("geometry kernel unavailable")
	ErrInvalidParameter      = errors.New("invalid parameter")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindInvalidConfig         ErrorKind = "invalid_config"
	KindExecution             ErrorKind = "execution"
	KindNoShape               ErrorKind = "no_shape"
	KindMalformedDocument     ErrorKind = "malformed_document"
	KindCapabilityUnavailable ErrorKind = "capability_unavailable"
	KindInvalidParameter      ErrorKind = "invalid_parameter"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return ""
}
