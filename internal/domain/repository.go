package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored as encoded bytes so every backend behaves the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient defines the interface for the Bunnings data APIs.
//
// Implementations return *APIError for non-2xx responses and wrapped
// transport errors otherwise; callers decide how to degrade. Errors for
// which IsFatal is true must be propagated.
type CatalogClient interface {
	SearchItem(ctx context.Context, query string) ([]SearchHit, error)
	GetPrices(ctx context.Context, itemNumbers []string, locationCode string) ([]Price, error)
	GetStock(ctx context.Context, locationCode, itemNumber string) (*StockLevel, error)
	GetItemLocations(ctx context.Context, itemNumbers []string, locationCode string) ([]ItemLocation, error)
	GetNearestStores(ctx context.Context, lat, lng float64) ([]Store, error)
}
