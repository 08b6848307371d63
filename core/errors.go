package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidDate        = errors.New("invalid date")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrEventNotFound      = fmt.Errorf("event %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRutTaken           = fmt.Errorf("%w: rut already registered", ErrValidation)
	ErrInvalidCredentials = errors.New("invalid rut or password")
	ErrStore              = errors.New("store failure")
)

// NotAuthenticatedError carries the path the caller asked for so it can resume there after login.
type NotAuthenticatedError struct {
	ResumePath string
}

func (e *NotAuthenticatedError) Error() string {
	if e.ResumePath == "" {
		return "not authenticated"
	}

	return fmt.Sprintf("not authenticated, resume at %s", e.ResumePath)
}

func storeError(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

type Error struct {
	Message string   `json:"message,omitempty"`
	Err     []string `json:"err,omitempty"`
}

func NewError(message string, errs ...error) *Error {
	return &Error{
		Message: message,
		Err: func() []string {
			var msgs []string

			for _, err := range errs {
				if err != nil {
					msgs = append(msgs, err.Error())
				}
			}

			return msgs
		}(),
	}
}

func (e *Error) Error() string {
	//nolint:errchkjson
	data, _ := json.Marshal(e)
	return string(data)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	if len(e.Err) == 0 {
		return nil
	}

	errs := make([]error, len(e.Err))
	for i, err := range e.Err {
		errs[i] = fmt.Errorf("%s", err)
	}

	return errors.Join(errs...)
}

func (e *Error) Messages() []string {
	return e.Err
}
