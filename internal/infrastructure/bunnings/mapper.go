package bunnings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fixeruppera/backend/internal/domain"
)

const (
	unknownItemTitle     = "Unknown item"
	unknownStockLevel    = "unknown"
	addressPartSeparator = ", "
)

// mapSearchHits converts search results, falling back to _meta.itemNumber
// and name where the primary fields are absent.
func mapSearchHits(results []searchResult) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, len(results))
	for _, r := range results {
		itemNumber := r.ItemNumber
		if itemNumber == "" && r.Meta != nil {
			itemNumber = r.Meta.ItemNumber
		}

		title := r.Title
		if title == "" {
			title = r.Name
		}
		if title == "" {
			title = unknownItemTitle
		}

		hits = append(hits, domain.SearchHit{ItemNumber: itemNumber, Title: title})
	}
	return hits
}

func mapPrices(results []priceResult) []domain.Price {
	prices := make([]domain.Price, 0, len(results))
	for _, p := range results {
		var unit float64
		switch {
		case p.UnitPrice != nil:
			unit = *p.UnitPrice
		case p.LineUnitPrice != nil:
			unit = *p.LineUnitPrice
		}
		prices = append(prices, domain.Price{ItemNumber: p.ItemNumber, UnitPrice: unit})
	}
	return prices
}

func mapStock(resp stockResponse, requested string) *domain.StockLevel {
	stock := &domain.StockLevel{
		ItemNumber:     resp.ItemNumber,
		LevelIndicator: resp.LevelIndicator,
	}
	if stock.ItemNumber == "" {
		stock.ItemNumber = requested
	}
	if stock.LevelIndicator == "" {
		stock.LevelIndicator = unknownStockLevel
	}
	return stock
}

// mapItemLocations keeps the first in-store location of each item.
func mapItemLocations(results []itemLocationResult) []domain.ItemLocation {
	locations := make([]domain.ItemLocation, 0, len(results))
	for _, item := range results {
		loc := domain.ItemLocation{ItemNumber: item.ItemNumber}
		if len(item.InStoreLocations) > 0 {
			loc.Aisle = item.InStoreLocations[0].Aisle
			loc.Bay = item.InStoreLocations[0].Bay
		}
		locations = append(locations, loc)
	}
	return locations
}

func mapStores(results []locationResult) []domain.Store {
	stores := make([]domain.Store, 0, len(results))
	for _, loc := range results {
		store := domain.Store{
			LocationCode: loc.LocationCode,
			Name:         storeName(loc),
			Address:      joinAddress(loc.Address),
			Distance:     loc.Distance,
		}
		store.Latitude, store.Longitude = coordinates(loc)
		stores = append(stores, store)
	}
	return stores
}

func storeName(loc locationResult) string {
	switch {
	case loc.FriendlyName != "":
		return loc.FriendlyName
	case loc.Name != "":
		return loc.Name
	default:
		return fmt.Sprintf("Store %s", loc.LocationCode)
	}
}

func joinAddress(addr *locationAddress) string {
	if addr == nil {
		return ""
	}
	var parts []string
	for _, part := range []string{addr.Line1, addr.TownCity, addr.State, addr.PostCode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, addressPartSeparator)
}

// coordinates prefers geoLocation and falls back to top-level fields.
func coordinates(loc locationResult) (float64, float64) {
	lat := firstFloat(geoField(loc.GeoLocation, true), loc.Latitude)
	lng := firstFloat(geoField(loc.GeoLocation, false), loc.Longitude)
	return lat, lng
}

func geoField(geo *geoLocation, latitude bool) *float64 {
	if geo == nil {
		return nil
	}
	if latitude {
		return geo.Latitude
	}
	return geo.Longitude
}

func firstFloat(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// parseItemLocations accepts either a bare array or a {results:[...]} envelope.
func parseItemLocations(data []byte) ([]itemLocationResult, error) {
	if isJSONArray(data) {
		var items []itemLocationResult
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("unmarshal item locations: %w", err)
		}
		return items, nil
	}

	var envelope itemLocationsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal item locations: %w", err)
	}
	return envelope.Results, nil
}

// parseLocations accepts either a bare array or a {locations:[...]} envelope.
func parseLocations(data []byte) ([]locationResult, error) {
	if isJSONArray(data) {
		var locations []locationResult
		if err := json.Unmarshal(data, &locations); err != nil {
			return nil, fmt.Errorf("unmarshal locations: %w", err)
		}
		return locations, nil
	}

	var envelope locationsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal locations: %w", err)
	}
	return envelope.Locations, nil
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
