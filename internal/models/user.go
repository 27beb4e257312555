package models

import "time"

// UserRole represents the roles a portal account can hold. A freshly
// registered account has no role until it picks one.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleClub    UserRole = "club"
	RoleAdmin   UserRole = "admin"
	RoleUnset   UserRole = ""
)

// Valid reports whether the role is one a user may select.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleClub:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                UserRole   `db:"role" json:"role"`
	AttendanceGoal      int        `db:"attendance_goal" json:"attendance_goal"`
	ResetToken          *string    `db:"reset_token" json:"-"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// UserSummary is the display-friendly projection attached to feed items
// and follower listings.
type UserSummary struct {
	ID    string   `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Email string   `db:"email" json:"email,omitempty"`
	Role  UserRole `db:"role" json:"role,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
