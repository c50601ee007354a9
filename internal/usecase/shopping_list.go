package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fixeruppera/backend/internal/domain"
)

// EstimateTotal sums the unit prices of all priced products, rounded to cents.
// Quantities are free text and are not applied.
func EstimateTotal(products []domain.ProductRecord) float64 {
	total := decimal.Zero
	for _, p := range products {
		if p.Price == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(*p.Price))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// NewShoppingList wraps matched products with store details and a total
func NewShoppingList(req domain.MatchRequest, result *domain.MatchResult, region Region, matchedAt time.Time) domain.ShoppingList {
	name := req.StoreName
	if name == "" {
		name = fmt.Sprintf("Bunnings %s", req.LocationCode)
	}

	products := result.Products
	if products == nil {
		products = []domain.ProductRecord{}
	}

	return domain.ShoppingList{
		Products: products,
		Store: domain.StoreInfo{
			LocationCode: req.LocationCode,
			Name:         name,
			Address:      req.StoreAddress,
		},
		TotalEstimate: EstimateTotal(products),
		Currency:      region.Currency,
		MatchedAt:     matchedAt.UTC(),
	}
}
