package bunnings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fixeruppera/backend/internal/domain"
)

// SearchItem normalizes query and searches the item catalog. An empty
// slice is a valid outcome.
func (c *Client) SearchItem(ctx context.Context, query string) ([]domain.SearchHit, error) {
	searchQuery := BuildSearchQuery(query)
	c.logger.Debug("item search", zap.String("query", query), zap.String("search_query", searchQuery))

	var resp searchResponse
	err := c.do(ctx, apiCall{
		op:      "item search",
		method:  http.MethodPost,
		url:     fmt.Sprintf("%s/search/%s", c.itemBaseURL, c.country),
		version: itemAPIVersion,
		body:    searchRequest{Query: searchQuery, Filters: map[string]any{}},
	}, &resp)
	if err != nil {
		return nil, err
	}

	return mapSearchHits(resp.Results), nil
}

// GetItemLocations looks up the aisle and bay of each item at one store
// in a single batched request.
func (c *Client) GetItemLocations(ctx context.Context, itemNumbers []string, locationCode string) ([]domain.ItemLocation, error) {
	if len(itemNumbers) == 0 {
		return []domain.ItemLocation{}, nil
	}

	params := url.Values{}
	params.Set("itemNumbers", strings.Join(itemNumbers, ","))
	params.Set("locationCodes", locationCode)

	var raw json.RawMessage
	err := c.do(ctx, apiCall{
		op:      "item locations",
		method:  http.MethodGet,
		url:     fmt.Sprintf("%s/locations/%s?%s", c.itemBaseURL, c.country, params.Encode()),
		version: itemAPIVersion,
	}, &raw)
	if err != nil {
		return nil, err
	}

	items, err := parseItemLocations(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBunningsAPIFailure, err)
	}
	return mapItemLocations(items), nil
}
