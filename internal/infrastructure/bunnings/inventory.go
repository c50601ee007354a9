package bunnings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fixeruppera/backend/internal/domain"
)

// GetStock fetches the stock level of a single item at one store. The
// inventory API has no batch endpoint.
func (c *Client) GetStock(ctx context.Context, locationCode, itemNumber string) (*domain.StockLevel, error) {
	var resp stockResponse
	err := c.do(ctx, apiCall{
		op:     "inventory",
		method: http.MethodGet,
		url: fmt.Sprintf("%s/itemStock/%s/%s/%s",
			c.inventoryBaseURL, c.country, url.PathEscape(locationCode), url.PathEscape(itemNumber)),
		version: inventoryAPIVersion,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return mapStock(resp, itemNumber), nil
}
