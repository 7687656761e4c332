package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityAction represents the type of administrative action being logged
type ActivityAction string

const (
	ActivityActionProfileApproved  ActivityAction = "profile_approved"
	ActivityActionProfileRejected  ActivityAction = "profile_rejected"
	ActivityActionProfileSuspended ActivityAction = "profile_suspended"
	ActivityActionProfileRestored  ActivityAction = "profile_restored"
	ActivityActionProfileUpdated   ActivityAction = "profile_updated"
	ActivityActionProfileDeleted   ActivityAction = "profile_deleted"
	ActivityActionRoleChanged      ActivityAction = "role_changed"
	ActivityActionRankAssigned     ActivityAction = "rank_assigned"
	ActivityActionRankCreated      ActivityAction = "rank_created"
	ActivityActionRankUpdated      ActivityAction = "rank_updated"
	ActivityActionRankDeleted      ActivityAction = "rank_deleted"
	ActivityActionTaxiCreated      ActivityAction = "taxi_created"
	ActivityActionTaxiUpdated      ActivityAction = "taxi_updated"
	ActivityActionTaxiDeleted      ActivityAction = "taxi_deleted"
)

// ActivityLog is an immutable audit record of an administrative action,
// written as a side effect of the corresponding mutation.
type ActivityLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ActorID    uuid.UUID       `json:"actor_id" db:"actor_id"`
	Action     ActivityAction  `json:"action" db:"action"`
	TargetType string          `json:"target_type" db:"target_type"` // marshal, rank, taxi
	TargetID   *uuid.UUID      `json:"target_id,omitempty" db:"target_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// NewActivityLog creates a new ActivityLog instance
func NewActivityLog(actorID uuid.UUID, action ActivityAction, targetType string) *ActivityLog {
	return &ActivityLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		CreatedAt:  time.Now(),
	}
}

// WithTarget sets the target entity ID
func (a *ActivityLog) WithTarget(targetID uuid.UUID) *ActivityLog {
	a.TargetID = &targetID
	return a
}

// WithDetails sets the details payload
func (a *ActivityLog) WithDetails(details interface{}) *ActivityLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}
