// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Fullname holds the user's display name parts.
type Fullname struct {
	Firstname string `gorm:"size:100;not null"`
	Lastname  string `gorm:"size:100"`
}

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user (UUID string, shared by every store).
	ID string `gorm:"primaryKey;size:36"`

	Fullname Fullname `gorm:"embedded"`

	// Email is the user's login identifier. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash. Repositories leave it empty unless the
	// caller explicitly asks for credentials (FindByEmail).
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports whether plain matches the stored hash.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// WithoutPassword returns a copy of the user with the hash cleared.
func (u *User) WithoutPassword() *User {
	out := *u
	out.Password = ""
	return &out
}
