package service

import "errors"

// ErrInvalidInput marks request validation failures
var ErrInvalidInput = errors.New("invalid input")

// inputError is a validation failure whose message is safe to show as is
type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(msg string) error { return &inputError{msg: msg} }

// ErrForbidden is returned when a learner touches another learner's data
var ErrForbidden = errors.New("forbidden")
