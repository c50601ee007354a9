package bunnings

// Wire payloads of the Bunnings developer APIs. Only the fields this
// service reads are declared.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type,omitempty"`
}

type searchRequest struct {
	Query   string         `json:"query"`
	Filters map[string]any `json:"filters"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ItemNumber string      `json:"itemNumber"`
	Title      string      `json:"title"`
	Name       string      `json:"name"`
	Meta       *searchMeta `json:"_meta,omitempty"`
}

type searchMeta struct {
	ItemNumber string `json:"itemNumber"`
}

type pricingRequest struct {
	Context pricingContext `json:"context"`
	Items   []pricingItem  `json:"items"`
}

type pricingContext struct {
	Country  string `json:"country"`
	Location string `json:"location"`
}

type pricingItem struct {
	ItemNumber string `json:"itemNumber"`
}

type pricesResponse struct {
	Prices []priceResult `json:"prices"`
}

type priceResult struct {
	ItemNumber    string   `json:"itemNumber"`
	UnitPrice     *float64 `json:"unitPrice"`
	LineUnitPrice *float64 `json:"lineUnitPrice"`
}

type stockResponse struct {
	ItemNumber     string `json:"itemNumber"`
	LevelIndicator string `json:"levelIndicator"`
}

type itemLocationsEnvelope struct {
	Results []itemLocationResult `json:"results"`
}

type itemLocationResult struct {
	ItemNumber       string            `json:"itemNumber"`
	InStoreLocations []inStoreLocation `json:"inStoreLocations"`
}

type inStoreLocation struct {
	Aisle string `json:"aisle"`
	Bay   string `json:"bay"`
}

type locationsEnvelope struct {
	Locations []locationResult `json:"locations"`
}

type locationResult struct {
	LocationCode string           `json:"locationCode"`
	FriendlyName string           `json:"friendlyName"`
	Name         string           `json:"name"`
	Address      *locationAddress `json:"address"`
	GeoLocation  *geoLocation     `json:"geoLocation"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Distance     *float64         `json:"distance"`
}

type locationAddress struct {
	Line1    string `json:"line1"`
	TownCity string `json:"townCity"`
	State    string `json:"state"`
	PostCode string `json:"postCode"`
}

type geoLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
