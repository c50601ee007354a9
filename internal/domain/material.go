package domain

// MatchError tags a ProductRecord that could not be resolved to a catalog item
type MatchError string

const (
	MatchErrorNoMatch  MatchError = "no_match"
	MatchErrorAPIError MatchError = "api_error"
)

// MaterialRequest is one free-text shopping-list entry. Qty is passed through untouched.
type MaterialRequest struct {
	Item string `json:"item"`
	Qty  string `json:"qty"`
}

// SearchHit is a single catalog search result
type SearchHit struct {
	ItemNumber string `json:"itemNumber"`
	Title      string `json:"title"`
}

// Price is the store-specific unit price of an item
type Price struct {
	ItemNumber string  `json:"itemNumber"`
	UnitPrice  float64 `json:"unitPrice"`
}

// StockLevel is the coarse inventory status of an item at one store
type StockLevel struct {
	ItemNumber     string `json:"itemNumber"`
	LevelIndicator string `json:"levelIndicator"`
}

// InStock collapses the level indicator to a boolean
func (s StockLevel) InStock() bool {
	return s.LevelIndicator != "outOfStock" && s.LevelIndicator != "0"
}

// ItemLocation is the in-store aisle/bay of an item
type ItemLocation struct {
	ItemNumber string `json:"itemNumber"`
	Aisle      string `json:"aisle,omitempty"`
	Bay        string `json:"bay,omitempty"`
}

// ProductRecord is the match outcome for exactly one MaterialRequest
type ProductRecord struct {
	ItemNumber *string    `json:"itemNumber"`
	Title      *string    `json:"title"`
	Price      *float64   `json:"price,omitempty"`
	InStock    *bool      `json:"inStock,omitempty"`
	Aisle      string     `json:"aisle,omitempty"`
	Bay        string     `json:"bay,omitempty"`
	MatchedTo  string     `json:"matchedTo"`
	Error      MatchError `json:"error,omitempty"`
}

// NoMatchRecord builds the record for a material without a search hit
func NoMatchRecord(material MaterialRequest) ProductRecord {
	return ProductRecord{
		MatchedTo: material.Item,
		Error:     MatchErrorNoMatch,
	}
}

// CallFailure describes one downstream call that degraded to an empty result
type CallFailure struct {
	Op         string
	Key        string
	StatusCode int
	Err        error
}

// MatchResult is the output of a material match run
type MatchResult struct {
	Products []ProductRecord `json:"products"`
	Failures []CallFailure   `json:"-"`
}

// MatchedCount returns how many products resolved to a catalog item
func (r *MatchResult) MatchedCount() int {
	n := 0
	for _, p := range r.Products {
		if p.ItemNumber != nil {
			n++
		}
	}
	return n
}
