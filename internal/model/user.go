package model

import (
	"time"

	"github.com/medcita/clinic-api/internal/apperror"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// ParseRole rejects anything outside the closed role set so unknown
// strings never reach storage.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor:
		return Role(s), nil
	default:
		return "", apperror.Newf(apperror.Validation, "invalid role: %q", s)
	}
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Specialty    *string   `db:"specialty" json:"specialty,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	Role      string  `json:"role" binding:"required"`
	Specialty *string `json:"specialty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login payload; Token shape depends on the
// configured auth mode.
type TokenResponse struct {
	Token     string  `json:"token"`
	UserID    int64   `json:"user_id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	Specialty *string `json:"specialty"`
}

// DoctorEntry is one row of the doctor directory.
type DoctorEntry struct {
	UserID    int64   `db:"id" json:"user_id"`
	FullName  string  `db:"full_name" json:"full_name"`
	Email     string  `db:"email" json:"email"`
	Specialty *string `db:"specialty" json:"specialty"`
}
