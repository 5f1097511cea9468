package usecase

import "errors"

// ErrInvalidInput is returned before any database work when a request is
// missing required data.
var ErrInvalidInput = errors.New("invalid input")
