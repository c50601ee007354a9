package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fixeruppera/backend/internal/domain"
	"github.com/fixeruppera/backend/internal/infrastructure/bunnings"
)

const defaultSearchCacheTTL = 6 * time.Hour

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	// SearchCacheTTL is how long a first search hit is reused for the same query.
	SearchCacheTTL time.Duration
}

// MatchingService resolves free-text materials to Bunnings catalog items
// and enriches them with store price, stock and aisle data.
type MatchingService struct {
	catalog  domain.CatalogClient
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewMatchingService creates a new matching service. cache may be nil.
func NewMatchingService(catalog domain.CatalogClient, cache domain.CacheRepository, config MatchConfig, logger *zap.Logger) *MatchingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := config.SearchCacheTTL
	if ttl == 0 {
		ttl = defaultSearchCacheTTL
	}
	return &MatchingService{
		catalog:  catalog,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

type searchOutcome struct {
	material domain.MaterialRequest
	hit      *domain.SearchHit
}

// failureLog collects degraded calls from concurrent branches.
type failureLog struct {
	mu       sync.Mutex
	failures []domain.CallFailure
}

func (f *failureLog) add(failure domain.CallFailure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, failure)
}

// MatchMaterials returns exactly one ProductRecord per material: matched
// records first, then no_match records. Downstream failures degrade to
// missing fields; only configuration and auth errors are returned.
func (s *MatchingService) MatchMaterials(ctx context.Context, materials []domain.MaterialRequest, locationCode string) (*domain.MatchResult, error) {
	if strings.TrimSpace(locationCode) == "" {
		return nil, domain.ErrInvalidRequest
	}

	failures := &failureLog{}

	matched, unmatched, err := s.searchAll(ctx, materials, failures)
	if err != nil {
		return nil, err
	}

	if len(matched) == 0 {
		products := make([]domain.ProductRecord, 0, len(materials))
		for _, m := range materials {
			products = append(products, domain.NoMatchRecord(m))
		}
		s.logSummary(len(materials), 0, failures.failures)
		return &domain.MatchResult{Products: products, Failures: failures.failures}, nil
	}

	enrichment, err := s.enrich(ctx, uniqueItemNumbers(matched), locationCode, failures)
	if err != nil {
		return nil, err
	}

	products := make([]domain.ProductRecord, 0, len(materials))
	for _, outcome := range matched {
		products = append(products, enrichment.record(outcome))
	}
	for _, outcome := range unmatched {
		products = append(products, domain.NoMatchRecord(outcome.material))
	}

	s.logSummary(len(materials), len(matched), failures.failures)
	return &domain.MatchResult{Products: products, Failures: failures.failures}, nil
}

// searchAll searches every material concurrently and waits for all of
// them. A failed search counts as a search without a hit.
func (s *MatchingService) searchAll(ctx context.Context, materials []domain.MaterialRequest, failures *failureLog) ([]searchOutcome, []searchOutcome, error) {
	outcomes := make([]searchOutcome, len(materials))
	errs := make([]error, len(materials))

	var wg sync.WaitGroup
	for i, material := range materials {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hit, err := s.firstHit(ctx, material.Item)
			outcomes[i] = searchOutcome{material: material, hit: hit}
			errs[i] = err
		}()
	}
	wg.Wait()

	var matched, unmatched []searchOutcome
	for i, outcome := range outcomes {
		if err := errs[i]; err != nil {
			if domain.IsFatal(err) {
				return nil, nil, err
			}
			s.degrade(failures, "item search", outcome.material.Item, err)
		}
		if outcome.hit != nil {
			matched = append(matched, outcome)
		} else {
			unmatched = append(unmatched, outcome)
		}
	}
	return matched, unmatched, nil
}

// firstHit returns the first search result for item, or nil when there is none.
func (s *MatchingService) firstHit(ctx context.Context, item string) (*domain.SearchHit, error) {
	key := searchCacheKey(item)
	if hit, ok := s.cachedHit(ctx, key); ok {
		return hit, nil
	}

	hits, err := s.catalog.SearchItem(ctx, item)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 || hits[0].ItemNumber == "" {
		return nil, nil
	}

	hit := hits[0]
	s.storeHit(ctx, key, hit)
	return &hit, nil
}

// enrichment holds the merged price, stock and aisle lookups keyed by item number.
type enrichment struct {
	prices    map[string]float64
	locations map[string]domain.ItemLocation
	stock     map[string]domain.StockLevel
}

// enrich runs the price, item-location and per-item stock lookups
// concurrently. Each lookup degrades to nothing on a soft failure.
func (s *MatchingService) enrich(ctx context.Context, itemNumbers []string, locationCode string, failures *failureLog) (*enrichment, error) {
	var (
		prices    []domain.Price
		locations []domain.ItemLocation
		g         errgroup.Group
	)
	stocks := make([]*domain.StockLevel, len(itemNumbers))

	g.Go(func() error {
		p, err := s.catalog.GetPrices(ctx, itemNumbers, locationCode)
		if err != nil {
			return s.softOrFatal(failures, "pricing", strings.Join(itemNumbers, ","), err)
		}
		prices = p
		return nil
	})

	g.Go(func() error {
		l, err := s.catalog.GetItemLocations(ctx, itemNumbers, locationCode)
		if err != nil {
			return s.softOrFatal(failures, "item locations", strings.Join(itemNumbers, ","), err)
		}
		locations = l
		return nil
	})

	for i, num := range itemNumbers {
		g.Go(func() error {
			stock, err := s.catalog.GetStock(ctx, locationCode, num)
			if err != nil {
				return s.softOrFatal(failures, "inventory", num, err)
			}
			stocks[i] = stock
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e := &enrichment{
		prices:    make(map[string]float64, len(prices)),
		locations: make(map[string]domain.ItemLocation, len(locations)),
		stock:     make(map[string]domain.StockLevel, len(itemNumbers)),
	}
	for _, p := range prices {
		e.prices[p.ItemNumber] = p.UnitPrice
	}
	for _, l := range locations {
		e.locations[l.ItemNumber] = l
	}
	for i, num := range itemNumbers {
		if stocks[i] != nil {
			e.stock[num] = *stocks[i]
		}
	}
	return e, nil
}

// record assembles the ProductRecord of a matched material.
func (e *enrichment) record(outcome searchOutcome) domain.ProductRecord {
	itemNumber := outcome.hit.ItemNumber
	title := outcome.hit.Title

	rec := domain.ProductRecord{
		ItemNumber: &itemNumber,
		Title:      &title,
		MatchedTo:  outcome.material.Item,
	}
	if price, ok := e.prices[itemNumber]; ok {
		rec.Price = &price
	}
	if stock, ok := e.stock[itemNumber]; ok {
		inStock := stock.InStock()
		rec.InStock = &inStock
	}
	if loc, ok := e.locations[itemNumber]; ok {
		rec.Aisle = loc.Aisle
		rec.Bay = loc.Bay
	}
	return rec
}

// softOrFatal passes fatal errors through and records everything else.
func (s *MatchingService) softOrFatal(failures *failureLog, op, key string, err error) error {
	if domain.IsFatal(err) {
		return err
	}
	s.degrade(failures, op, key, err)
	return nil
}

func (s *MatchingService) degrade(failures *failureLog, op, key string, err error) {
	failure := domain.CallFailure{Op: op, Key: key, Err: err}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		failure.StatusCode = apiErr.StatusCode
	}
	failures.add(failure)

	s.logger.Warn("lookup degraded",
		zap.String("op", op),
		zap.String("key", key),
		zap.Int("status", failure.StatusCode),
		zap.Bool("timeout", bunnings.IsTimeout(err)),
		zap.Error(err))
}

func (s *MatchingService) logSummary(total, matched int, failures []domain.CallFailure) {
	s.logger.Info("materials matched",
		zap.Int("materials", total),
		zap.Int("matched", matched),
		zap.Int("degraded_calls", len(failures)))
}

func (s *MatchingService) cachedHit(ctx context.Context, key string) (*domain.SearchHit, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var hit domain.SearchHit
	if err := json.Unmarshal(data, &hit); err != nil || hit.ItemNumber == "" {
		return nil, false
	}
	return &hit, true
}

func (s *MatchingService) storeHit(ctx context.Context, key string, hit domain.SearchHit) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(hit)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Debug("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// searchCacheKey keys on the normalized query so inputs that differ only
// in units or dashes share an entry.
// Format: "search:{normalized query}"
func searchCacheKey(item string) string {
	return "search:" + strings.ToLower(bunnings.BuildSearchQuery(item))
}

func uniqueItemNumbers(matched []searchOutcome) []string {
	seen := make(map[string]struct{}, len(matched))
	nums := make([]string, 0, len(matched))
	for _, m := range matched {
		num := m.hit.ItemNumber
		if _, ok := seen[num]; ok {
			continue
		}
		seen[num] = struct{}{}
		nums = append(nums, num)
	}
	return nums
}
