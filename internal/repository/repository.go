// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
// Lookups that match no row return sql.ErrNoRows unchanged so callers can map it.
package repository

import "errors"

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (an existing email, or an active booking for the same client and session).
var ErrDuplicate = errors.New("duplicate record")

// ErrStateConflict is returned by conditional writes when the row exists but
// is no longer in a state the write accepts.
var ErrStateConflict = errors.New("row state changed")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
