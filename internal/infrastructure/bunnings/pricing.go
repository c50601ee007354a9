package bunnings

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fixeruppera/backend/internal/domain"
)

// GetPrices fetches store prices for all item numbers in one request.
func (c *Client) GetPrices(ctx context.Context, itemNumbers []string, locationCode string) ([]domain.Price, error) {
	if len(itemNumbers) == 0 {
		return []domain.Price{}, nil
	}

	items := make([]pricingItem, 0, len(itemNumbers))
	for _, num := range itemNumbers {
		items = append(items, pricingItem{ItemNumber: num})
	}

	var resp pricesResponse
	err := c.do(ctx, apiCall{
		op:      "pricing",
		method:  http.MethodPost,
		url:     fmt.Sprintf("%s/catalog/prices", c.pricingBaseURL),
		version: pricingAPIVersion,
		body: pricingRequest{
			Context: pricingContext{Country: c.country, Location: locationCode},
			Items:   items,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	return mapPrices(resp.Prices), nil
}
