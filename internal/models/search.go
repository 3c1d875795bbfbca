package models

import "github.com/paulmach/orb"

// SearchFields selects which address fields a text search scores against.
type SearchFields string

const (
	// FieldsStreet scores against address lines 1 and 2.
	FieldsStreet SearchFields = "street"
	// FieldsFull also includes city and zip code.
	FieldsFull SearchFields = "full"
)

// SearchQuery is the input of an address search. An empty Term with a
// Reference point is a proximity search.
type SearchQuery struct {
	Term         string
	Reference    *orb.Point
	Limit        int
	Fields       SearchFields
	RadiusMeters float64
}

// SearchResult is one ranked address. Score is nil for proximity searches,
// DistanceMeters is nil when no reference point was given.
type SearchResult struct {
	Address        Address  `json:"address"`
	Score          *float64 `json:"score,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}
