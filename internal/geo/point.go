// Package geo holds the proximity engine: coordinate handling, great-circle
// and point-to-line distances, viewport bounds and the polyline codec.
//
// Every coordinate in this package is an orb.Point, which stores
// [longitude, latitude]. Raw float pairs enter only through LonLat and LatLon,
// and leave towards s2 only through toLatLng.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// LonLat builds a point from a (longitude, latitude) pair.
func LonLat(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}

// LatLon builds a point from a (latitude, longitude) pair, the order used by
// browser geolocation and by the polyline feed.
func LatLon(lat, lon float64) orb.Point {
	return orb.Point{lon, lat}
}

// ValidPoint reports whether p is a finite WGS-84 coordinate.
func ValidPoint(p orb.Point) bool {
	lon, lat := p.Lon(), p.Lat()
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toLatLng(p orb.Point) s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat(), p.Lon())
}
