package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// MeetingInput carries the fields for scheduling or editing a meeting.
type MeetingInput struct {
	RankID       uuid.UUID
	Title        string
	Agenda       string
	ScheduledFor time.Time
}

// MeetingService schedules marshal meetings at ranks.
type MeetingService struct {
	meetings repositories.MeetingRepository
	ranks    repositories.RankRepository
	logger   *zap.Logger
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(
	meetings repositories.MeetingRepository,
	ranks repositories.RankRepository,
	logger *zap.Logger,
) *MeetingService {
	return &MeetingService{
		meetings: meetings,
		ranks:    ranks,
		logger:   logger,
	}
}

// Create schedules a meeting at a rank within the caller's scope.
func (s *MeetingService) Create(ctx context.Context, actorID uuid.UUID, scope authz.Scope, input MeetingInput) (*models.Meeting, error) {
	if input.Title == "" {
		return nil, NewValidationError("title must not be empty", nil)
	}
	if input.ScheduledFor.Before(time.Now()) {
		return nil, NewValidationError("meetings must be scheduled in the future", nil)
	}
	if !scope.AllowsRank(input.RankID) {
		return nil, NewForbiddenError("record belongs to another rank", ErrRankScopeViolation)
	}
	if _, err := s.ranks.GetByID(ctx, input.RankID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidationError("taxi rank not found", ErrRankNotFound)
		}
		return nil, NewInternalError("failed to load rank", err)
	}

	meeting := models.NewMeeting(input.RankID, input.Title, input.Agenda, input.ScheduledFor, actorID)
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, NewInternalError("failed to create meeting", err)
	}

	s.logger.Info("meeting scheduled",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("rank_id", meeting.RankID.String()),
		zap.Time("scheduled_for", meeting.ScheduledFor))

	return meeting, nil
}

// Get retrieves a meeting visible within the caller's scope.
func (s *MeetingService) Get(ctx context.Context, scope authz.Scope, id uuid.UUID) (*models.Meeting, error) {
	meeting, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("meeting not found", ErrMeetingNotFound)
		}
		return nil, NewInternalError("failed to load meeting", err)
	}
	if !scope.AllowsRank(meeting.RankID) {
		return nil, NewNotFoundError("meeting not found", ErrMeetingNotFound)
	}
	return meeting, nil
}

// List returns meetings visible within the caller's scope.
func (s *MeetingService) List(ctx context.Context, scope authz.Scope) ([]*models.Meeting, error) {
	meetings, err := s.meetings.List(ctx, scope)
	if err != nil {
		return nil, NewInternalError("failed to list meetings", err)
	}
	return meetings, nil
}

// Update edits a meeting's title, agenda or time.
func (s *MeetingService) Update(ctx context.Context, scope authz.Scope, id uuid.UUID, input MeetingInput) (*models.Meeting, error) {
	meeting, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		meeting.Title = input.Title
	}
	meeting.Agenda = input.Agenda
	if !input.ScheduledFor.IsZero() {
		meeting.ScheduledFor = input.ScheduledFor
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, NewInternalError("failed to update meeting", err)
	}
	return meeting, nil
}

// Delete cancels a meeting.
func (s *MeetingService) Delete(ctx context.Context, scope authz.Scope, id uuid.UUID) error {
	meeting, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, meeting.ID); err != nil {
		return NewInternalError("failed to delete meeting", err)
	}
	return nil
}
