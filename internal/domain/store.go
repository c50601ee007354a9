package domain

import "time"

// Store is a Bunnings location returned by the nearest-store lookup
type Store struct {
	LocationCode string   `json:"locationCode"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Distance     *float64 `json:"distance,omitempty"`
}

// StoreInfo identifies the store a shopping list was priced against
type StoreInfo struct {
	LocationCode string `json:"locationCode"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

// MatchRequest is the body of a material match request
type MatchRequest struct {
	Materials    []MaterialRequest `json:"materials"`
	LocationCode string            `json:"locationCode"`
	StoreName    string            `json:"storeName,omitempty"`
	StoreAddress string            `json:"storeAddress,omitempty"`
	Timezone     string            `json:"timezone"`
}

// ShoppingList is the priced, store-scoped result returned to the UI
type ShoppingList struct {
	Products      []ProductRecord `json:"products"`
	Store         StoreInfo       `json:"store"`
	TotalEstimate float64         `json:"totalEstimate"`
	Currency      string          `json:"currency"`
	MatchedAt     time.Time       `json:"matchedAt"`
}
