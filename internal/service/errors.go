package service

import (
	"errors"
	"fmt"

	"github.com/BuzzLyutic/todo-client/internal/gateway"
	"github.com/BuzzLyutic/todo-client/internal/store"
)

var ErrValidation = errors.New("validation error")

// ValidationError reports a local input that failed its constraints.
// No network call is made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type ErrorKind string

const (
	KindUnknown    ErrorKind = "unknown"
	KindValidation ErrorKind = "validation"
	KindRemote     ErrorKind = "remote"
	KindIndex      ErrorKind = "index"
)

// KindOf classifies err into one of the failure kinds the layer produces.
func KindOf(err error) ErrorKind {
	var (
		verr *ValidationError
		rerr *gateway.RemoteError
		ierr *store.IndexError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr), errors.Is(err, ErrValidation):
		return KindValidation
	case errors.As(err, &rerr):
		return KindRemote
	case errors.As(err, &ierr):
		return KindIndex
	}
	return KindUnknown
}
