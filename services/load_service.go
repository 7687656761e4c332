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

// LoadService records load events. A load is an append-only fact; the
// taxi's running total is advanced in the same transaction so the two
// never drift apart.
type LoadService struct {
	loads     repositories.LoadRepository
	taxis     repositories.TaxiRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewLoadService creates a new LoadService
func NewLoadService(
	loads repositories.LoadRepository,
	taxis repositories.TaxiRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *LoadService {
	return &LoadService{
		loads:     loads,
		taxis:     taxis,
		txManager: txManager,
		logger:    logger,
	}
}

// Record appends a load for the taxi and bumps its total. The taxi must be
// assigned to a rank within the caller's scope.
func (s *LoadService) Record(ctx context.Context, actorID uuid.UUID, scope authz.Scope, taxiID uuid.UUID) (*models.Load, error) {
	taxi, err := s.taxis.GetByID(ctx, taxiID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("taxi not found", ErrTaxiNotFound)
		}
		return nil, NewInternalError("failed to load taxi", err)
	}
	if taxi.RankID == nil {
		return nil, NewValidationError("taxi is not assigned to a rank", ErrRankRequired)
	}
	if !scope.AllowsRank(*taxi.RankID) {
		return nil, NewForbiddenError("record belongs to another rank", ErrRankScopeViolation)
	}

	load := models.NewLoad(taxi.ID, *taxi.RankID, actorID)

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		if err := s.loads.Insert(txCtx, load); err != nil {
			return fmt.Errorf("failed to insert load: %w", err)
		}
		if err := s.taxis.IncrementLoads(txCtx, taxi.ID); err != nil {
			return fmt.Errorf("failed to increment load count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, NewInternalError("failed to record load", err)
	}

	s.logger.Info("load recorded",
		zap.String("load_id", load.ID.String()),
		zap.String("taxi_id", taxi.ID.String()),
		zap.String("rank_id", taxi.RankID.String()),
		zap.String("actor_id", actorID.String()))

	return load, nil
}

// List returns load events visible within the caller's scope, newest first.
func (s *LoadService) List(ctx context.Context, scope authz.Scope, limit, offset int) ([]*models.Load, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	loads, err := s.loads.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, NewInternalError("failed to list loads", err)
	}
	return loads, nil
}
