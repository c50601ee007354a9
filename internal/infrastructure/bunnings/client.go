package bunnings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fixeruppera/backend/internal/domain"
)

// Sandbox endpoints. Production instances override them through Options.
const (
	DefaultTokenURL         = "https://connect.sandbox.api.bunnings.com.au/connect/token"
	DefaultItemBaseURL      = "https://item.sandbox.api.bunnings.com.au/item"
	DefaultPricingBaseURL   = "https://pricing.sandbox.api.bunnings.com.au/pricing"
	DefaultLocationBaseURL  = "https://location.sandbox.api.bunnings.com.au/location"
	DefaultInventoryBaseURL = "https://inventory.sandbox.api.bunnings.com.au/inventory"

	DefaultCountry = "AU"
)

const (
	userAgent = "FixerUppera/1.0"

	itemAPIVersion      = "1.3"
	pricingAPIVersion   = "1.0"
	locationAPIVersion  = "1.0"
	inventoryAPIVersion = "1.0"
)

// tokenSource supplies bearer tokens. *TokenProvider is the production implementation.
type tokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Options configures a Client. Zero values fall back to sandbox defaults.
type Options struct {
	ItemBaseURL      string
	PricingBaseURL   string
	LocationBaseURL  string
	InventoryBaseURL string
	Country          string

	// CallTimeout bounds every downstream call, retries included.
	CallTimeout time.Duration
	// MaxAttempts is the number of tries for network errors, 429 and 5xx. 1 disables retries.
	MaxAttempts  int
	RetryBackoff time.Duration

	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
}

// Client handles communication with the Bunnings item, pricing, location
// and inventory APIs.
type Client struct {
	httpClient  *http.Client
	tokens      tokenSource
	rateLimiter *rate.Limiter
	logger      *zap.Logger

	itemBaseURL      string
	pricingBaseURL   string
	locationBaseURL  string
	inventoryBaseURL string
	country          string

	callTimeout  time.Duration
	maxAttempts  int
	retryBackoff time.Duration
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new Bunnings API client
func NewClient(tokens tokenSource, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 500 * time.Millisecond
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 20
	}

	return &Client{
		httpClient:       opts.HTTPClient,
		tokens:           tokens,
		rateLimiter:      rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:           logger,
		itemBaseURL:      orDefault(opts.ItemBaseURL, DefaultItemBaseURL),
		pricingBaseURL:   orDefault(opts.PricingBaseURL, DefaultPricingBaseURL),
		locationBaseURL:  orDefault(opts.LocationBaseURL, DefaultLocationBaseURL),
		inventoryBaseURL: orDefault(opts.InventoryBaseURL, DefaultInventoryBaseURL),
		country:          orDefault(opts.Country, DefaultCountry),
		callTimeout:      opts.CallTimeout,
		maxAttempts:      opts.MaxAttempts,
		retryBackoff:     opts.RetryBackoff,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// apiCall describes one JSON request against a Bunnings API.
type apiCall struct {
	op      string
	method  string
	url     string
	version string
	body    any
}

// do executes call and decodes a 2xx body into out. Non-2xx responses
// come back as *domain.APIError; token failures are returned unchanged.
func (c *Client) do(ctx context.Context, call apiCall, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	if call.body != nil {
		payload, err = json.Marshal(call.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", call.op, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1, c.retryBackoff)); err != nil {
				break
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			lastErr = fmt.Errorf("%w: %s: rate limiter: %w", domain.ErrBunningsAPIFailure, call.op, err)
			break
		}

		body, status, err := c.send(ctx, call, token, payload)
		if err != nil {
			c.logger.Warn("request error",
				zap.String("op", call.op), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %s: %w", domain.ErrBunningsAPIFailure, call.op, err)
			continue
		}

		if status < 200 || status > 299 {
			apiErr := &domain.APIError{Op: call.op, StatusCode: status, Body: string(body)}
			c.logger.Warn("non-2xx response",
				zap.String("op", call.op), zap.Int("status", status), zap.Int("attempt", attempt))
			if status == http.StatusUnauthorized {
				c.tokens.Invalidate()
			}
			lastErr = apiErr
			if apiErr.Temporary() {
				continue
			}
			return apiErr
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decode %s response: %v", domain.ErrBunningsAPIFailure, call.op, err)
		}
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: %s: %w", domain.ErrBunningsAPIFailure, call.op, ctx.Err())
	}
	return lastErr
}

// send performs a single HTTP exchange and returns the raw body and status.
func (c *Client) send(ctx context.Context, call apiCall, token string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.method, call.url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-version-api", call.version)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// exponentialBackoff returns base, 2*base, 4*base, ... for attempt 1, 2, 3, ...
func exponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTimeout reports whether err came from a call exceeding its deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
