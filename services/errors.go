package services

import "errors"

// Sentinel errors surfaced to the HTTP layer. Controllers map these to
// status codes with errors.Is; anything else is a 500.
var (
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidInput    = errors.New("invalid input")
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
)
