package store

import "errors"

var (
	// ErrMissingTable is returned when a write names no table.
	ErrMissingTable = errors.New("table name is required")
	// ErrReadUnsupported is returned by composites whose stores cannot list records.
	ErrReadUnsupported = errors.New("store does not support reading records")
)
