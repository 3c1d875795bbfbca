package geo

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
)

// EarthRadiusMeters is the IUGG mean radius of the WGS-84 ellipsoid.
const EarthRadiusMeters = 6371008.8

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b orb.Point) float64 {
	return toLatLng(a).Distance(toLatLng(b)).Radians() * EarthRadiusMeters
}

// ClosestPointOnLine returns the line-side endpoint of the shortest segment
// connecting p to line. The segment is constructed in planar degree space.
// An empty line yields p itself.
func ClosestPointOnLine(p orb.Point, line orb.LineString) orb.Point {
	switch len(line) {
	case 0:
		return p
	case 1:
		return line[0]
	}

	q := toR2(p)
	best := toR2(line[0])
	bestD := math.Inf(1)
	for i := 1; i < len(line); i++ {
		c := closestOnSegment(q, toR2(line[i-1]), toR2(line[i]))
		d := q.Sub(c)
		if n := d.Dot(d); n < bestD {
			best, bestD = c, n
		}
	}
	return orb.Point{best.X, best.Y}
}

// PointToLine returns the distance in meters from p to the nearest vertex or
// segment of line: the planar shortest line is built first, then its
// line-side endpoint is measured on the sphere. The planar step makes this an
// approximation that holds for the sub-kilometer distances outage
// classification cares about; it is not meant for continental-scale lines.
//
// An empty line is infinitely far away.
func PointToLine(p orb.Point, line orb.LineString) float64 {
	if len(line) == 0 {
		return math.Inf(1)
	}
	return Distance(p, ClosestPointOnLine(p, line))
}

func toR2(p orb.Point) r2.Point {
	return r2.Point{X: p.Lon(), Y: p.Lat()}
}

func closestOnSegment(p, a, b r2.Point) r2.Point {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return a.Add(ab.Mul(t))
}
