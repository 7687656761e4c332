package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// RankInput carries the fields for creating or updating a taxi rank.
type RankInput struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Capacity  *int
	Aisles    models.AisleList
	Fares     models.FareList
}

// RankService manages taxi ranks, their aisle layouts and fare boards.
type RankService struct {
	ranks     repositories.RankRepository
	marshals  repositories.MarshalRepository
	taxis     repositories.TaxiRepository
	activity  repositories.ActivityRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewRankService creates a new RankService
func NewRankService(
	ranks repositories.RankRepository,
	marshals repositories.MarshalRepository,
	taxis repositories.TaxiRepository,
	activity repositories.ActivityRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *RankService {
	return &RankService{
		ranks:     ranks,
		marshals:  marshals,
		taxis:     taxis,
		activity:  activity,
		txManager: txManager,
		logger:    logger,
	}
}

// Create adds a new rank. Names must be unique so directory lookups and
// rank assignments stay unambiguous.
func (s *RankService) Create(ctx context.Context, actorID uuid.UUID, input RankInput) (*models.TaxiRank, error) {
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	if _, err := s.ranks.GetByName(ctx, input.Name); err == nil {
		return nil, NewConflictError(fmt.Sprintf("rank %q already exists", input.Name), nil)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, NewInternalError("failed to check rank name", err)
	}

	rank := models.NewTaxiRank(input.Name, input.Address, input.Latitude, input.Longitude)
	rank.Capacity = input.Capacity
	if input.Aisles != nil {
		rank.Aisles = input.Aisles
	}
	if input.Fares != nil {
		rank.Fares = input.Fares
	}

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.ranks.Create(txCtx, rank); err != nil {
			return fmt.Errorf("failed to create rank: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionRankCreated, "rank").
			WithTarget(rank.ID).
			WithDetails(map[string]interface{}{"name": rank.Name})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to create rank", err)
	}

	s.logger.Info("rank created",
		zap.String("rank_id", rank.ID.String()),
		zap.String("name", rank.Name),
		zap.String("actor_id", actorID.String()))

	return rank, nil
}

// Get retrieves a rank by ID.
func (s *RankService) Get(ctx context.Context, id uuid.UUID) (*models.TaxiRank, error) {
	rank, err := s.ranks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("taxi rank not found", ErrRankNotFound)
		}
		return nil, NewInternalError("failed to load rank", err)
	}
	return rank, nil
}

// List returns all ranks, optionally filtered by a name/address search term.
func (s *RankService) List(ctx context.Context, search string) ([]*models.TaxiRank, error) {
	ranks, err := s.ranks.List(ctx, search)
	if err != nil {
		return nil, NewInternalError("failed to list ranks", err)
	}
	return ranks, nil
}

// Update replaces a rank's details, layout and fare board.
func (s *RankService) Update(ctx context.Context, actorID, id uuid.UUID, input RankInput) (*models.TaxiRank, error) {
	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	rank, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != rank.Name {
		if existing, err := s.ranks.GetByName(ctx, input.Name); err == nil && existing.ID != rank.ID {
			return nil, NewConflictError(fmt.Sprintf("rank %q already exists", input.Name), nil)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, NewInternalError("failed to check rank name", err)
		}
	}

	rank.Name = input.Name
	rank.Address = input.Address
	rank.Latitude = input.Latitude
	rank.Longitude = input.Longitude
	rank.Capacity = input.Capacity
	if input.Aisles != nil {
		rank.Aisles = input.Aisles
	}
	if input.Fares != nil {
		rank.Fares = input.Fares
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.ranks.Update(txCtx, rank); err != nil {
			return fmt.Errorf("failed to update rank: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionRankUpdated, "rank").
			WithTarget(rank.ID).
			WithDetails(map[string]interface{}{"name": rank.Name})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return nil, NewInternalError("failed to update rank", err)
	}

	return rank, nil
}

// Delete removes a rank. A rank with assigned marshals or taxis cannot be
// deleted; those bindings must be moved or removed first.
func (s *RankService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	rank, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	rankScope := authz.Scope{Kind: authz.ScopeRank, RankID: rank.ID}

	assigned, err := s.marshals.List(ctx, rankScope)
	if err != nil {
		return NewInternalError("failed to check assigned marshals", err)
	}
	taxis, err := s.taxis.List(ctx, rankScope)
	if err != nil {
		return NewInternalError("failed to check assigned taxis", err)
	}
	if len(assigned) > 0 || len(taxis) > 0 {
		return NewConflictError("taxi rank has assigned marshals or taxis", ErrRankInUse).
			WithDetails(map[string]interface{}{
				"marshals": len(assigned),
				"taxis":    len(taxis),
			})
	}

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.ranks.Delete(txCtx, rank.ID); err != nil {
			return fmt.Errorf("failed to delete rank: %w", err)
		}
		entry := models.NewActivityLog(actorID, models.ActivityActionRankDeleted, "rank").
			WithTarget(rank.ID).
			WithDetails(map[string]interface{}{"name": rank.Name})
		return s.activity.Insert(txCtx, entry)
	})
	if err != nil {
		return NewInternalError("failed to delete rank", err)
	}

	s.logger.Info("rank deleted",
		zap.String("rank_id", rank.ID.String()),
		zap.String("actor_id", actorID.String()))

	return nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return NewValidationError("latitude must be between -90 and 90", nil)
	}
	if lng < -180 || lng > 180 {
		return NewValidationError("longitude must be between -180 and 180", nil)
	}
	return nil
}
