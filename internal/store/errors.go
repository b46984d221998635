package store

import (
	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

// Sentinel errors. They match any domain error with the same code, so
// errors.Is(err, store.ErrNotFound) also holds for NotFound results.
var (
	ErrNotFound = domainerrors.NotFound("resource not found")
	ErrConflict = domainerrors.Conflict("resource already exists")
)

// NotFound reports a missing row of the named kind.
func NotFound(kind, id string) error {
	return domainerrors.NotFoundf("%s %s not found", kind, id)
}

// Conflict reports a write that lost a race with a concurrent writer.
func Conflict(op string, cause error) error {
	return domainerrors.Conflict(op + ": conflicting write").WithCause(cause)
}

// IsConflict reports whether err is a conflict that a retry may resolve.
func IsConflict(err error) bool {
	return domainerrors.Is(err, ErrConflict)
}
