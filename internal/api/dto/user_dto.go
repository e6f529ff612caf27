package dto

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 50
)

// RegisterUserRequest payload for new users.
type RegisterUserRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Validate checks field constraints.
func (r RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 64)),
		validation.Field(
			&r.PasswordConfirmation,
			validation.Required,
			validation.By(stringEquals(r.Password)),
		),
	)
}

// LoginUserRequest payload for login.
type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks field constraints.
func (r LoginUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 64)),
	)
}

// ListQuery holds pagination params for user listing.
type ListQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Validate checks pagination bounds. Zero values mean "use the default".
func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Page, validation.Min(1)),
		validation.Field(&q.Limit, validation.Min(1), validation.Max(maxLimit)),
	)
}

// Normalized fills in default page and limit.
func (q ListQuery) Normalized() ListQuery {
	if q.Page <= 0 {
		q.Page = defaultPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	return q
}

// Offset is the row offset for the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// FilteredUser is the public view of a user; it never carries the password hash.
type FilteredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FilterUser strips private fields from user.
func FilterUser(user *domain.User) FilteredUser {
	return FilteredUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		Photo:     user.Photo,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// FilterUsers applies FilterUser to each element.
func FilterUsers(users []domain.User) []FilteredUser {
	out := make([]FilteredUser, 0, len(users))
	for i := range users {
		out = append(out, FilterUser(&users[i]))
	}
	return out
}

// UserData wraps a single user.
type UserData struct {
	User FilteredUser `json:"user"`
}

// UserResponse is returned by single-user endpoints.
type UserResponse struct {
	Status string   `json:"status"`
	Data   UserData `json:"data"`
}

// UserListResponse is returned by the listing endpoint.
type UserListResponse struct {
	Status  string         `json:"status"`
	Users   []FilteredUser `json:"users"`
	Results int            `json:"results"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// Response is the generic status/message envelope.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func stringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("passwords do not match")
		}
		return nil
	}
}
