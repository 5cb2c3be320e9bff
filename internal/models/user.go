package models

import (
	"time"
)

const (
	RoleUser       = "user"
	RoleCEO        = "ceo"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	RegionID     *int64    `json:"region_id"`
	RegionName   string    `json:"region_name"`
	Year         *int      `json:"year"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsActive reports whether the account finished OTP verification.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserPatch carries the fields an admin may change on an account.
// Nil fields are left untouched.
type UserPatch struct {
	FullName *string
	Phone    *string
	Role     *string
	Status   *string
	RegionID *int64
	Year     *int
	Image    *string
}
