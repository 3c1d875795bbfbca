package models

import "github.com/paulmach/orb"

// Address represents a single electrical service address and its point location.
type Address struct {
	ID           int64   `json:"id"`
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 string  `json:"address_line_2"`
	City         string  `json:"city"`
	County       string  `json:"county"`
	Zipcode      string  `json:"zipcode"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Point returns the address location in (lon, lat) order.
func (a Address) Point() orb.Point {
	return orb.Point{a.Longitude, a.Latitude}
}

// Street is line 1 and line 2 joined by a space, skipping an empty line 2.
func (a Address) Street() string {
	if a.AddressLine2 == "" {
		return a.AddressLine1
	}
	return a.AddressLine1 + " " + a.AddressLine2
}

// AddressCluster is a grid cell of addresses collapsed into one centroid.
type AddressCluster struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}
