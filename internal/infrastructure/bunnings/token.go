package bunnings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fixeruppera/backend/internal/domain"
)

// tokenExpirySkew keeps a token from expiring while a request is in flight.
const tokenExpirySkew = 60 * time.Second

// DefaultScope is the scope set requested by the client-credentials grant.
const DefaultScope = "itm:details pri:pub loc:pub inv:pub"

// Clock provides the current time. Tests inject a controllable implementation.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TokenConfig configures a TokenProvider.
type TokenConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string

	HTTPClient *http.Client
	Clock      Clock
}

// TokenProvider issues bearer tokens via the OAuth2 client-credentials
// grant and caches the current token until it is within tokenExpirySkew
// of expiring. Safe for concurrent use; concurrent callers that find the
// token stale wait for a single grant.
type TokenProvider struct {
	clientID     string
	clientSecret string
	tokenURL     string
	scope        string
	httpClient   *http.Client
	clock        Clock
	logger       *zap.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenProvider creates a token provider. Missing credentials are not
// rejected here; the first Token call reports them.
func NewTokenProvider(cfg TokenConfig, logger *zap.Logger) *TokenProvider {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TokenProvider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		tokenURL:     cfg.TokenURL,
		scope:        cfg.Scope,
		httpClient:   cfg.HTTPClient,
		clock:        cfg.Clock,
		logger:       logger,
	}
}

// Configured reports whether both client credentials are present.
func (p *TokenProvider) Configured() bool {
	return p.clientID != "" && p.clientSecret != ""
}

// Token returns a bearer token with more than tokenExpirySkew of validity
// left, performing a grant when the cached one is missing or stale.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	if p.token != "" && now.Before(p.expiresAt.Add(-tokenExpirySkew)) {
		return p.token, nil
	}

	if err := p.checkCredentials(); err != nil {
		return "", err
	}

	token, expiresIn, err := p.grant(ctx)
	if err != nil {
		return "", err
	}

	p.token = token
	p.expiresAt = now.Add(expiresIn)
	p.logger.Debug("issued bearer token", zap.Time("expires_at", p.expiresAt))

	return p.token, nil
}

// Invalidate drops the cached token so the next Token call performs a grant.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiresAt = time.Time{}
}

func (p *TokenProvider) checkCredentials() error {
	var missing []string
	if p.clientID == "" {
		missing = append(missing, "BUNNINGS_CLIENT_ID")
	}
	if p.clientSecret == "" {
		missing = append(missing, "BUNNINGS_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{Missing: missing}
	}
	return nil
}

// grant performs the client-credentials exchange. Must be called with p.mu held.
func (p *TokenProvider) grant(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", p.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrTokenRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrTokenRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("%w: reading response: %v", domain.ErrTokenRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Error("token grant rejected", zap.Int("status", resp.StatusCode))
		return "", 0, &domain.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, &domain.AuthError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("undecodable token response: %v", err)}
	}
	if tr.AccessToken == "" {
		return "", 0, &domain.AuthError{StatusCode: resp.StatusCode, Body: "token response missing access_token"}
	}

	return tr.AccessToken, time.Duration(tr.ExpiresIn) * time.Second, nil
}
