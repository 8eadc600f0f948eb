package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("email or username already in use")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUnauthorized      = errors.New("invalid or expired token")

	ErrInvalidDeckName = errors.New("invalid deck name")
	ErrInvalidCards    = errors.New("invalid cards")
	ErrDeckNotFound    = errors.New("deck not found")
	ErrDeckForbidden   = errors.New("deck does not belong to the user")
)
