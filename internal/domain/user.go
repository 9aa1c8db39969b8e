package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         string     `json:"role" db:"role"`
	FacilityID   *string    `json:"facility_id,omitempty" db:"facility_id"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

type CreateUserInput struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FullName   string  `json:"full_name" validate:"required,min=2"`
	Role       string  `json:"role" validate:"required,oneof=admin doctor nurse dispatcher"`
	FacilityID *string `json:"facility_id,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleDoctor     UserRole = "doctor"
	RoleNurse      UserRole = "nurse"
	RoleDispatcher UserRole = "dispatcher"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleDispatcher:
		return true
	default:
		return false
	}
}

// HasRole implements the role hierarchy: admin covers everything, clinical
// and dispatch roles only cover themselves.
func (u *User) HasRole(requiredRole string) bool {
	if u.Role == "admin" {
		return true
	}
	return u.Role == requiredRole
}
