package models

import (
	"time"

	"github.com/google/uuid"
)

// Load is an immutable record of a taxi leaving the rank with passengers.
// Loads are append-only; taxi load counts are derived from them.
type Load struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TaxiID     uuid.UUID `json:"taxi_id" db:"taxi_id"`
	RankID     uuid.UUID `json:"rank_id" db:"rank_id"`
	RecordedBy uuid.UUID `json:"recorded_by" db:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// TableName returns the table name for the Load model
func (Load) TableName() string {
	return "loads"
}

// NewLoad creates a new Load instance
func NewLoad(taxiID, rankID, recordedBy uuid.UUID) *Load {
	return &Load{
		ID:         uuid.New(),
		TaxiID:     taxiID,
		RankID:     rankID,
		RecordedBy: recordedBy,
		RecordedAt: time.Now(),
	}
}
