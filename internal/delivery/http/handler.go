package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fixeruppera/backend/internal/domain"
	"github.com/fixeruppera/backend/internal/usecase"
)

const (
	errRegionUnsupported = "Bunnings integration is only available for Australian users"
	errMaterialsRequired = "Materials array is required"
	errLocationRequired  = "Store location code is required"
	errCoordinates       = "Valid latitude and longitude are required"
	errInvalidBody       = "Invalid request body"
)

// MaterialMatcher matches shopping-list materials against one store
type MaterialMatcher interface {
	MatchMaterials(ctx context.Context, materials []domain.MaterialRequest, locationCode string) (*domain.MatchResult, error)
}

// StoreFinder finds stores near a coordinate
type StoreFinder interface {
	NearestStores(ctx context.Context, lat, lng float64) ([]domain.Store, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher    MaterialMatcher
	stores     StoreFinder
	configured bool
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler creates a new HTTP handler. configured reports whether
// Bunnings credentials are present.
func NewHandler(matcher MaterialMatcher, stores StoreFinder, configured bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		matcher:    matcher,
		stores:     stores,
		configured: configured,
		logger:     logger,
		now:        time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fixeruppera-backend",
		"version": "1.0.0",
	})
}

// MatchMaterials handles POST /api/v1/bunnings/match
func (h *Handler) MatchMaterials(c *gin.Context) {
	var req domain.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	if !usecase.IsBunningsRegion(req.Timezone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRegionUnsupported})
		return
	}
	if !h.configured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrNotConfigured.Error()})
		return
	}
	if len(req.Materials) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMaterialsRequired})
		return
	}
	if req.LocationCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLocationRequired})
		return
	}

	result, err := h.matcher.MatchMaterials(c.Request.Context(), req.Materials, req.LocationCode)
	if err != nil {
		h.writeError(c, "bunnings match failed", err)
		return
	}

	h.logDegraded(c, req.LocationCode, result)

	region, _ := usecase.RegionForTimezone(req.Timezone)
	c.JSON(http.StatusOK, usecase.NewShoppingList(req, result, region, h.now()))
}

// storesBody keeps coordinates untyped so non-numeric values are
// reported as a validation error rather than a decode error.
type storesBody struct {
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
	Timezone  string `json:"timezone"`
}

// NearestStores handles POST /api/v1/bunnings/stores
func (h *Handler) NearestStores(c *gin.Context) {
	var req storesBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	if !usecase.IsBunningsRegion(req.Timezone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRegionUnsupported})
		return
	}
	if !h.configured {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrNotConfigured.Error()})
		return
	}

	lat, latOK := req.Latitude.(float64)
	lng, lngOK := req.Longitude.(float64)
	if !latOK || !lngOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCoordinates})
		return
	}

	stores, err := h.stores.NearestStores(c.Request.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errCoordinates})
			return
		}
		h.writeError(c, "bunnings store lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// logDegraded reports lookups that fell back to empty fields for this request
func (h *Handler) logDegraded(c *gin.Context, locationCode string, result *domain.MatchResult) {
	if len(result.Failures) == 0 {
		return
	}
	ops := make([]string, 0, len(result.Failures))
	for _, f := range result.Failures {
		ops = append(ops, f.Op)
	}
	h.logger.Warn("match degraded",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("location_code", locationCode),
		zap.Int("matched", result.MatchedCount()),
		zap.Int("degraded_calls", len(result.Failures)),
		zap.Strings("ops", ops))
}

func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrNotConfigured.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
