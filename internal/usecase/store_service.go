package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/fixeruppera/backend/internal/domain"
)

const defaultStoreCacheTTL = 24 * time.Hour

// StoreService looks up Bunnings stores near a coordinate
type StoreService struct {
	catalog  domain.CatalogClient
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStoreService creates a new store service. cache may be nil.
func NewStoreService(catalog domain.CatalogClient, cache domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL == 0 {
		cacheTTL = defaultStoreCacheTTL
	}
	return &StoreService{
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// NearestStores returns the stores closest to (lat, lng). A failed lookup
// yields an empty list; configuration and auth errors are returned.
func (s *StoreService) NearestStores(ctx context.Context, lat, lng float64) ([]domain.Store, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidRequest)
	}

	key := storeCacheKey(lat, lng)
	if stores, ok := s.cachedStores(ctx, key); ok {
		return stores, nil
	}

	stores, err := s.catalog.GetNearestStores(ctx, lat, lng)
	if err != nil {
		if domain.IsFatal(err) {
			return nil, err
		}
		var apiErr *domain.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		s.logger.Warn("nearest store lookup degraded",
			zap.Float64("latitude", lat),
			zap.Float64("longitude", lng),
			zap.Int("status", status),
			zap.Error(err))
		return []domain.Store{}, nil
	}
	if stores == nil {
		stores = []domain.Store{}
	}

	if len(stores) > 0 {
		s.storeStores(ctx, key, stores)
	}
	return stores, nil
}

func (s *StoreService) cachedStores(ctx context.Context, key string) ([]domain.Store, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var stores []domain.Store
	if err := json.Unmarshal(data, &stores); err != nil {
		return nil, false
	}
	return stores, true
}

func (s *StoreService) storeStores(ctx context.Context, key string, stores []domain.Store) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stores)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Debug("store cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// storeCacheKey rounds to three decimals (about 100m).
// Format: "stores:{lat}:{lng}"
func storeCacheKey(lat, lng float64) string {
	return fmt.Sprintf("stores:%.3f:%.3f", lat, lng)
}
