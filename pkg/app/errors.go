package app

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound is returned when a request names a project that is
	// not open. Project ids always come from the store, so this is reported
	// as an invariant violation.
	ErrProjectNotFound = errors.New("app: project not found")
	// ErrProjectOpen is returned when registering a project whose id is
	// already open.
	ErrProjectOpen = errors.New("app: project already open")
	// ErrJournalOpen is returned for undo or redo while a journal entry is
	// being collected for the same project.
	ErrJournalOpen = errors.New("app: journal entry is open")
	// ErrNoPersistence is returned by save and load when no persistence is
	// configured.
	ErrNoPersistence = errors.New("app: no persistence configured")
	// ErrUnknownMsg is returned for message types no handler accepts.
	ErrUnknownMsg = errors.New("app: unknown message")
)

// InvariantError marks a request that referenced state which does not exist
// or could not be read or written. The request is rejected before any
// mutation and must not be retried.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("app: %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

func invariant(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InvariantError
	if errors.As(err, &ie) {
		return err
	}
	return &InvariantError{Op: op, Err: err}
}

// IsInvariant reports whether err is, or wraps, an InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
