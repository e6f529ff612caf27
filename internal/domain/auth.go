package domain

import "time"

// Session is the result of a successful login.
type Session struct {
	User      *User
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
