package domain

import "errors"

var (
	// ErrDuplicate marks a unique-key collision. Marking paths convert it to
	// alreadyMarked=true; it must never reach an HTTP caller as an error.
	ErrDuplicate = errors.New("record already exists")

	// ErrNotFound is surfaced for primary lookups (combined history on an
	// unknown student) and swallowed for secondary ones (teacher names,
	// phone resolution).
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps missing-required-field failures.
	ErrValidation = errors.New("validation failed")
)
