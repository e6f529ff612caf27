package domain

import "time"

// UserRole is a membership tag checked by role guards. Roles carry no rank.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleModerator UserRole = "moderator"
	UserRoleUser      UserRole = "user"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleModerator, UserRoleUser:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// User is the account record an authenticated request is bound to.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Photo        string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
