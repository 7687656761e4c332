package models

import (
	"time"

	"github.com/google/uuid"
)

// Credential stores the password hash for a registered email. Kept separate
// from the Marshal profile so rejecting a pending profile removes both.
type Credential struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Credential model
func (Credential) TableName() string {
	return "credentials"
}

// NewCredential creates a new Credential instance
func NewCredential(email, passwordHash string) *Credential {
	return &Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
