package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Role     Role   `json:"role" validate:"required,oneof=Administrator Advisor EndUser"`
}

type UpdateUserInput struct {
	FullName  *string  `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
	Role      *Role    `json:"role,omitempty" validate:"omitempty,oneof=Administrator Advisor EndUser"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Role is the closed set of account roles. The exact strings matter: they are
// stored in the database and compared verbatim by the ticket routing filter.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleAdvisor       Role = "Advisor"
	RoleEndUser       Role = "EndUser"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleAdvisor, RoleEndUser:
		return true
	default:
		return false
	}
}

// HasRole reports whether the user satisfies the required role. Administrators
// satisfy every requirement; advisors satisfy Advisor and EndUser; end users
// only EndUser.
func (u *User) HasRole(required Role) bool {
	switch required {
	case RoleAdministrator:
		return u.Role == RoleAdministrator
	case RoleAdvisor:
		return u.Role == RoleAdvisor || u.Role == RoleAdministrator
	case RoleEndUser:
		return u.Role.IsValid()
	default:
		return false
	}
}
