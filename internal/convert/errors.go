package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal conversion failure
type Kind string

const (
	// KindInputAccess covers missing, unreadable or undecodable input
	KindInputAccess Kind = "input_access"
	// KindOutputWrite covers an output path that cannot be written
	KindOutputWrite Kind = "output_write"
)

// Error is the single structured failure a conversion call reports
type Error struct {
	Kind   Kind
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a conversion error anywhere in err's chain
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

func inputError(path, detail string, err error) error {
	return &Error{Kind: KindInputAccess, Path: path, Detail: detail, Err: err}
}

func outputError(path, detail string, err error) error {
	return &Error{Kind: KindOutputWrite, Path: path, Detail: detail, Err: err}
}
