package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidBounds is returned for corners outside WGS-84 or inverted in latitude.
	ErrInvalidBounds = errors.New("geo: invalid bounds")
	// ErrAntimeridian is returned when the viewport crosses the 180th meridian.
	// Such viewports are not supported; callers must split them.
	ErrAntimeridian = errors.New("geo: bounds crossing the antimeridian are not supported")
)

// Bounds is an axis-aligned viewport given by its south-west and north-east corners.
type Bounds struct {
	SouthWest orb.Point
	NorthEast orb.Point
}

// NewBounds builds bounds from the two corners.
func NewBounds(sw, ne orb.Point) Bounds {
	return Bounds{SouthWest: sw, NorthEast: ne}
}

// Validate checks both corners and rejects antimeridian-crossing viewports
// (south-west longitude east of the north-east longitude).
func (b Bounds) Validate() error {
	if !ValidPoint(b.SouthWest) {
		return fmt.Errorf("%w: south-west corner %v", ErrInvalidBounds, b.SouthWest)
	}
	if !ValidPoint(b.NorthEast) {
		return fmt.Errorf("%w: north-east corner %v", ErrInvalidBounds, b.NorthEast)
	}
	if b.SouthWest.Lat() > b.NorthEast.Lat() {
		return fmt.Errorf("%w: south latitude %f is north of %f", ErrInvalidBounds, b.SouthWest.Lat(), b.NorthEast.Lat())
	}
	if b.SouthWest.Lon() > b.NorthEast.Lon() {
		return ErrAntimeridian
	}
	return nil
}

// Bound converts to an orb.Bound.
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{Min: b.SouthWest, Max: b.NorthEast}
}

// Contains reports whether p lies inside the closed rectangle.
func (b Bounds) Contains(p orb.Point) bool {
	return b.Bound().Contains(p)
}
