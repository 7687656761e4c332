package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GiftHanong/taxihub/geo"
	"github.com/GiftHanong/taxihub/models"
	"github.com/GiftHanong/taxihub/repositories"
)

// NearbyRank is a directory entry paired with its distance from the
// queried point.
type NearbyRank struct {
	Rank       *models.TaxiRank `json:"rank"`
	DistanceKm float64          `json:"distance_km"`
}

// DirectoryService serves the public, unauthenticated rank directory:
// browsing, search, and nearby lookup.
type DirectoryService struct {
	ranks           repositories.RankRepository
	defaultRadiusKm float64
	logger          *zap.Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(ranks repositories.RankRepository, defaultRadiusKm float64, logger *zap.Logger) *DirectoryService {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 10
	}
	return &DirectoryService{
		ranks:           ranks,
		defaultRadiusKm: defaultRadiusKm,
		logger:          logger,
	}
}

// List returns ranks, optionally filtered by a name/address search term.
func (s *DirectoryService) List(ctx context.Context, search string) ([]*models.TaxiRank, error) {
	ranks, err := s.ranks.List(ctx, search)
	if err != nil {
		return nil, NewInternalError("failed to list ranks", err)
	}
	return ranks, nil
}

// Get returns a single rank with its aisle layout and fare board.
func (s *DirectoryService) Get(ctx context.Context, id uuid.UUID) (*models.TaxiRank, error) {
	rank, err := s.ranks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("taxi rank not found", ErrRankNotFound)
		}
		return nil, NewInternalError("failed to load rank", err)
	}
	return rank, nil
}

// Nearby returns ranks within radiusKm of the point, closest first. A
// non-positive radius falls back to the configured default.
func (s *DirectoryService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyRank, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = s.defaultRadiusKm
	}

	ranks, err := s.ranks.List(ctx, "")
	if err != nil {
		return nil, NewInternalError("failed to list ranks", err)
	}

	nearby := make([]NearbyRank, 0, len(ranks))
	for _, rank := range ranks {
		distance := geo.DistanceKm(lat, lng, rank.Latitude, rank.Longitude)
		if distance <= radiusKm {
			nearby = append(nearby, NearbyRank{Rank: rank, DistanceKm: distance})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby, nil
}
