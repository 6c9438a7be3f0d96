package domain

import "errors"

// ErrInvalidInput is returned by constructors when a loan parameter is out
// of domain. Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
