package common

import "errors"

// Failure classes shared by every upstream client.
// Callers wrap them with context and test with errors.Is
var (
	ErrTransport  = errors.New("transport error")
	ErrDecode     = errors.New("decode error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)
