package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleStudent
}

// User represents a user in the system (either a Trainer or a Student).
type User struct {
	ID             int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Username       string    `bson:"username" json:"username" gorm:"uniqueIndex;not null"` // Case-sensitive, unique
	PasswordHash   string    `bson:"passwordHash" json:"-" gorm:"not null"`                // Never expose this via JSON
	Name           string    `bson:"name" json:"name" gorm:"not null"`
	Role           Role      `bson:"role" json:"role" gorm:"not null;index"`
	ProfilePicture *string   `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Phone          *string   `bson:"phone,omitempty" json:"phone,omitempty"`
	JoinDate       time.Time `bson:"joinDate" json:"joinDate"`
}

func (User) TableName() string { return "users" }

func (u *User) GetID() int64   { return u.ID }
func (u *User) SetID(id int64) { u.ID = id }

// ApplyDefaults fills the server-managed fields left empty by the caller.
func (u *User) ApplyDefaults(now time.Time) {
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if u.JoinDate.IsZero() {
		u.JoinDate = now
	}
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Actor returns the identity this user acts as once authenticated.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// UserPatch carries the profile fields a user may change about themselves.
// Nil fields are left untouched.
type UserPatch struct {
	Name           *string `json:"name,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// Apply merges the non-nil fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = p.ProfilePicture
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
}
