package domain

import "time"

// Role represents a user role in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// User represents an authenticated actor referenced by bookings
type User struct {
	ID              int64
	Name            string
	Email           string
	Role            Role
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff returns true if the user works on the business side (manager role)
func (u *User) IsStaff() bool {
	return u.Role == RoleManager
}

// HasRole returns true if the user has any of the given roles
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// HasVerifiedEmail returns true if the user's email address is verified
func (u *User) HasVerifiedEmail() bool {
	return u.EmailVerifiedAt != nil
}
