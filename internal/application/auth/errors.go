package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("No account registered with this email")
	ErrIncorrectPassword     = errors.New("Incorrect password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
)
