package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role assigned to a marshal profile
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleMarshal    Role = "marshal"

	// RoleUnassigned is the role of a freshly registered, not yet approved profile
	RoleUnassigned Role = ""
)

// ValidAssignableRoles lists the roles an admin may assign during approval
var ValidAssignableRoles = []Role{RoleAdmin, RoleSupervisor, RoleMarshal}

// IsAssignable reports whether r is a role an admin may assign to a profile
func (r Role) IsAssignable() bool {
	for _, v := range ValidAssignableRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Marshal represents a marshal profile bound to an authenticated principal.
// A profile is created unapproved at registration; an admin approves it and
// assigns a role (and, for the marshal role, a rank) before it can sign in.
type Marshal struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Name        string     `json:"name" db:"name"`
	Phone       string     `json:"phone" db:"phone"`
	Role        Role       `json:"role" db:"role"`
	RankID      *uuid.UUID `json:"rank_id,omitempty" db:"rank_id"`
	Approved    bool       `json:"approved" db:"approved"`
	Suspended   bool       `json:"suspended" db:"suspended"`
	LoginCount  int        `json:"login_count" db:"login_count"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Marshal model
func (Marshal) TableName() string {
	return "marshals"
}

// NewMarshal creates a new unapproved Marshal profile
func NewMarshal(email, name, phone string) *Marshal {
	now := time.Now()
	return &Marshal{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Phone:     phone,
		Role:      RoleUnassigned,
		Approved:  false,
		Suspended: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin returns true if the profile has the admin role
func (m *Marshal) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Active reports whether the profile may hold a session
func (m *Marshal) Active() bool {
	return m.Approved && !m.Suspended
}
