package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a scheduled marshal meeting at a rank
type Meeting struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RankID       uuid.UUID `json:"rank_id" db:"rank_id"`
	Title        string    `json:"title" db:"title"`
	Agenda       string    `json:"agenda" db:"agenda"`
	ScheduledFor time.Time `json:"scheduled_for" db:"scheduled_for"`
	CreatedBy    uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Meeting model
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new Meeting instance
func NewMeeting(rankID uuid.UUID, title, agenda string, scheduledFor time.Time, createdBy uuid.UUID) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:           uuid.New(),
		RankID:       rankID,
		Title:        title,
		Agenda:       agenda,
		ScheduledFor: scheduledFor,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
