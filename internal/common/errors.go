package common

import (
	"errors"
	"fmt"
	"strings"

	"maverick/dispatch/internal/constants"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflicting write")
	ErrValidation        = errors.New("validation failed")
)

// TransitionError names the current status and the statuses an instructor may move to.
type TransitionError struct {
	Current   constants.SortieStatus
	Requested constants.SortieStatus
	Allowed   []constants.SortieStatus
}

func (e *TransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot move sortie from %s to %s; allowed next statuses: [%s]",
		e.Current, e.Requested, strings.Join(allowed, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
