package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches, including rows owned by a
	// different account (ownership failures are indistinguishable from
	// missing rows on purpose).
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMobile is returned when a customer mobile number already
	// exists for the same account.
	ErrDuplicateMobile = errors.New("mobile number already registered")

	// ErrDuplicateEmail is returned when an account email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
