package models

import (
	"time"

	"github.com/paulmach/orb"
)

// OutageIncident is one reported outage from the utility's customer feed,
// located at a single point.
type OutageIncident struct {
	ID                int64     `json:"id"`
	CustomersAffected int       `json:"customers_affected"`
	Cause             string    `json:"outage_cause"`
	Start             time.Time `json:"outage_start"`
	County            string    `json:"county"`
	Zipcode           string    `json:"zipcode"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
}

// Point returns the incident location in (lon, lat) order.
func (i OutageIncident) Point() orb.Point {
	return orb.Point{i.Longitude, i.Latitude}
}

// NearbyIncident is an incident with its distance from a reference point.
type NearbyIncident struct {
	OutageIncident
	DistanceMeters float64 `json:"distance_meters"`
	DistanceText   string  `json:"distance_text"`
}

// ZipOutageSummary aggregates the incidents reported in one zip code.
// EarliestStart is nil when there are none.
type ZipOutageSummary struct {
	Zipcode           string     `json:"zipcode"`
	Incidents         int64      `json:"incidents"`
	CustomersAffected int64      `json:"customers_affected"`
	EarliestStart     *time.Time `json:"earliest_start"`
	Affected          bool       `json:"affected"`
}
