package bunnings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fixeruppera/backend/internal/domain"
)

const (
	nearestSearchDiameter = 50
	nearestMaxResults     = 5
)

// GetNearestStores returns up to five stores within the search diameter
// of the given coordinates.
func (c *Client) GetNearestStores(ctx context.Context, lat, lng float64) ([]domain.Store, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("diameter", strconv.Itoa(nearestSearchDiameter))
	params.Set("maxResults", strconv.Itoa(nearestMaxResults))

	var raw json.RawMessage
	err := c.do(ctx, apiCall{
		op:      "location",
		method:  http.MethodGet,
		url:     fmt.Sprintf("%s/locations/nearest?%s", c.locationBaseURL, params.Encode()),
		version: locationAPIVersion,
	}, &raw)
	if err != nil {
		return nil, err
	}

	locations, err := parseLocations(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBunningsAPIFailure, err)
	}
	return mapStores(locations), nil
}
