package auth

import "errors"

// Failures produced by the authorization pipeline. Callers compare with
// errors.Is; the HTTP layer owns the mapping to status codes.
var (
	ErrTokenNotProvided   = errors.New("Token not provided")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrUserNoLongerExists = errors.New("User belonging to this token no longer exists")
	ErrPermissionsDenied  = errors.New("Not allowed to perform this action")
	ErrServerError        = errors.New("Server Error. Please try again later")
	ErrEmptySubject       = errors.New("token subject must not be empty")
)
