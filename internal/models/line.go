package models

import (
	"fmt"

	"github.com/paulmach/orb"
)

// LineKind distinguishes the two line tables.
type LineKind string

const (
	LineKindService LineKind = "service"
	LineKindOutage  LineKind = "outage"
)

// ParseLineKind maps a path segment onto a LineKind.
func ParseLineKind(s string) (LineKind, error) {
	switch LineKind(s) {
	case LineKindService, LineKindOutage:
		return LineKind(s), nil
	}
	return "", fmt.Errorf("unknown line kind %q", s)
}

// LineString is a service or outage circuit segment with at least two vertices.
// ID is the feed's optional identifier and may be empty.
type LineString struct {
	ID          string         `json:"id,omitempty"`
	Coordinates orb.LineString `json:"coordinates"`
}

// NearbyLine is a line together with its distance to a query point.
type NearbyLine struct {
	Line           LineString `json:"line"`
	DistanceMeters float64    `json:"distance_meters"`
}
