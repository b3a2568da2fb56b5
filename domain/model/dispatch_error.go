package model

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// KindValidation: malformed request, rejected before any I/O.
	KindValidation ErrorKind = "validation"
	// KindCredential: connection/page missing or token unusable.
	KindCredential ErrorKind = "credential"
	// KindPrecondition: adapter refused before touching the network.
	KindPrecondition ErrorKind = "precondition"
	// KindUpstream: the platform could not be reached.
	KindUpstream ErrorKind = "upstream"
	// KindRejected: the platform answered with a non-2xx status.
	KindRejected ErrorKind = "rejected"
	// KindAudit: a compliance-critical audit write could not be made durable.
	KindAudit ErrorKind = "audit"
)

// DispatchError is the typed error returned by the dispatch core.
type DispatchError struct {
	Kind    ErrorKind
	Message string
	// Status is the upstream HTTP status for KindRejected.
	Status int
	Err    error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DispatchError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...any) error {
	return &DispatchError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewCredentialError(msg string, err error) error {
	return &DispatchError{Kind: KindCredential, Message: msg, Err: err}
}

func NewPreconditionError(format string, args ...any) error {
	return &DispatchError{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamError(msg string, err error) error {
	return &DispatchError{Kind: KindUpstream, Message: msg, Err: err}
}

func NewRejectedError(status int, msg string) error {
	return &DispatchError{Kind: KindRejected, Message: msg, Status: status}
}

func NewAuditError(msg string, err error) error {
	return &DispatchError{Kind: KindAudit, Message: msg, Err: err}
}

// KindOf returns the kind of a DispatchError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
