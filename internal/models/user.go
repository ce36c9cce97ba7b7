package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of roles a user can hold. Keeping it a dedicated
// type forces every authorization rule to switch over the full set.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User represents an account in the records service. CurrentSemester is nil
// for admins and teachers; students always carry a semester >= 1.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	DisplayName     string    `gorm:"size:255;not null" json:"display_name"`
	Role            Role      `gorm:"size:16;not null" json:"role"`
	CurrentSemester *int      `json:"current_semester"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SetPassword hashes the plaintext password onto the user.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the stored hash against a plaintext candidate.
func (u *User) CheckPassword(plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain))
}
