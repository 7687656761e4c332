package models

import (
	"time"

	"github.com/google/uuid"
)

// Taxi represents a vehicle registered at a rank. PaidUntil and TotalLoads
// are projections maintained transactionally by the payment and load services.
type Taxi struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Registration string     `json:"registration" db:"registration"`
	DriverName   string     `json:"driver_name" db:"driver_name"`
	DriverPhone  string     `json:"driver_phone" db:"driver_phone"`
	RankID       *uuid.UUID `json:"rank_id,omitempty" db:"rank_id"`
	AisleNumber  *int       `json:"aisle_number,omitempty" db:"aisle_number"`
	PaidUntil    *time.Time `json:"paid_until,omitempty" db:"paid_until"`
	TotalLoads   int        `json:"total_loads" db:"total_loads"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Taxi model
func (Taxi) TableName() string {
	return "taxis"
}

// NewTaxi creates a new Taxi instance
func NewTaxi(registration, driverName, driverPhone string, rankID *uuid.UUID) *Taxi {
	now := time.Now()
	return &Taxi{
		ID:           uuid.New(),
		Registration: registration,
		DriverName:   driverName,
		DriverPhone:  driverPhone,
		RankID:       rankID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MembershipCurrent reports whether the taxi's membership covers the month
// containing the given time. PaidUntil holds the first day of the last paid month.
func (t *Taxi) MembershipCurrent(at time.Time) bool {
	if t.PaidUntil == nil {
		return false
	}
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	return !monthStart.After(*t.PaidUntil)
}
