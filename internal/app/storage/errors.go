package storage

import "errors"

// Sentinel errors shared by every Store implementation. The postgres store
// maps sql.ErrNoRows and unique-violation codes onto these so services never
// inspect driver errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)
