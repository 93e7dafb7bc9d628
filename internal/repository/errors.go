// Package repository defines error types that are reused across the
// repositories so handlers can tell failure scenarios apart without knowing
// about the storage driver.
package repository

import "errors"

// ErrNotFound is returned when no document matches an id, email or reset
// token.  Malformed ids are reported the same way.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert collides with the unique email
// index.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
