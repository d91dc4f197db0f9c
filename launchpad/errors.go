package launchpad

import "errors"

var (
	// ErrAlreadyInitialized is returned when the derived address already holds a pool.
	ErrAlreadyInitialized = errors.New("pool already initialized for mint")
	// ErrPoolNotFound is returned when no pool exists for the given mint or address.
	ErrPoolNotFound = errors.New("pool not found")
	// ErrUnauthorized is returned when a caller other than the pool authority
	// attempts an authority-gated operation.
	ErrUnauthorized = errors.New("caller is not the pool authority")
	// ErrAlreadyGraduated is returned for any mutation against a graduated pool.
	ErrAlreadyGraduated = errors.New("pool already graduated")
)
