package catalog

import "errors"

// ErrValidation marks command input that violates a field constraint. The
// store is never touched when it is returned.
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks a command referencing an id with no live record.
var ErrNotFound = errors.New("product not found")
