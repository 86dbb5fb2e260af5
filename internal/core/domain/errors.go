package domain

import "errors"

// Authentication failures (HTTP 401).
var (
	ErrTokenRequired       = errors.New("access token required")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrLocalUserNotFound   = errors.New("local account not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Authorization failures (HTTP 403).
var (
	ErrForbidden     = errors.New("access forbidden")
	ErrNotOwnAccount = errors.New("no permission over this user")
)

// Store failures.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrDNITaken       = errors.New("DNI already registered")
	ErrUserNotDeleted = errors.New("user is not deleted")
)

// Wrapped collaborator failures (HTTP 400). The underlying cause is logged,
// never returned to the caller.
var (
	ErrSignIn  = errors.New("error signing in")
	ErrSignUp  = errors.New("could not create user")
	ErrSignOut = errors.New("error logging out")
)
