package trips

import (
	"context"
	"fmt"
	"log/slog"

	"busline/internal/seatmap"
	"busline/internal/shared/config"
	"busline/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResponse, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*TripResponse, error)
	SearchTrips(ctx context.Context, query SearchQuery) ([]TripResponse, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	seats        seatmap.Service
	cacheService cache.Service
	cfg          *config.Config
	logger       *slog.Logger
}

func NewService(repo Repository, seats seatmap.Service, cfg *config.Config, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		seats:  seats,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// CreateTrip persists the trip and generates its seat schema. If schema
// generation fails the trip row is removed again so admins can retry.
func (s *service) CreateTrip(ctx context.Context, req CreateTripRequest) (*TripResponse, error) {
	fromAgencyID, err := uuid.Parse(req.FromAgencyID)
	if err != nil {
		return nil, fmt.Errorf("invalid from agency id: %w", err)
	}
	toAgencyID, err := uuid.Parse(req.ToAgencyID)
	if err != nil {
		return nil, fmt.Errorf("invalid to agency id: %w", err)
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}

	trip := &Trip{
		Departure:    req.Departure,
		Arrival:      req.Arrival,
		Price:        req.Price,
		FromAgencyID: fromAgencyID,
		ToAgencyID:   toAgencyID,
		CompanyID:    companyID,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	unitPrice := req.UnitPrice
	if unitPrice == 0 {
		unitPrice = req.Price
	}

	if _, err := s.seats.CreateSchemaForTrip(ctx, trip.ID, req.LayoutType, unitPrice); err != nil {
		if delErr := s.repo.Delete(ctx, trip.ID); delErr != nil {
			s.logger.Error("failed to remove trip after schema error", "trip_id", trip.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create seat schema: %w", err)
	}

	s.invalidateSearchCache(ctx)

	created, err := s.repo.GetByID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	resp := created.ToResponse()
	return &resp, nil
}

func (s *service) GetTrip(ctx context.Context, id uuid.UUID) (*TripResponse, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := trip.ToResponse()
	return &resp, nil
}

func (s *service) SearchTrips(ctx context.Context, query SearchQuery) ([]TripResponse, error) {
	if s.cacheService != nil {
		cacheKey := s.searchCacheKey(query)
		var cached []TripResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("trip search cache hit", "key", cacheKey)
			return cached, nil
		}

		results, err := s.searchFromDB(ctx, query)
		if err != nil {
			return nil, err
		}
		if err := s.cacheService.Set(ctx, cacheKey, results, s.cfg.Redis.SearchTTL); err != nil {
			s.logger.Warn("failed to cache trip search", "key", cacheKey, "error", err)
		}
		return results, nil
	}

	return s.searchFromDB(ctx, query)
}

func (s *service) searchFromDB(ctx context.Context, query SearchQuery) ([]TripResponse, error) {
	found, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]TripResponse, 0, len(found))
	for i := range found {
		results = append(results, found[i].ToResponse())
	}
	return results, nil
}

func (s *service) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSearchCache(ctx)
	return nil
}

func (s *service) searchCacheKey(query SearchQuery) string {
	return fmt.Sprintf("busline:trips:search:%s:%s:%s:%s", query.From, query.To, query.Date, query.Sort)
}

func (s *service) invalidateSearchCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, "busline:trips:search:*"); err != nil {
		s.logger.Warn("failed to invalidate trip search cache", "error", err)
	}
}
