package models

import (
	"time"
)

// Role names a staff member's permission set.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User represents a staff member allowed to sign in.
// Login accepts either the username or the phone number.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Phone     string    `gorm:"column:phone_no;size:30;index" json:"phone_no,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON
	Role      Role      `gorm:"size:20;not null;default:'staff'" json:"role"`
}

// TableName keeps the shop's historical table name.
func (User) TableName() string { return "admin_login" }

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
