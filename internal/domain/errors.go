package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkNotFound    = errors.New("link not found")

	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateHostname = errors.New("hostname already registered")

	ErrLinkNotProtected = errors.New("link is not password protected")
	ErrWrongPassword    = errors.New("wrong password")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
