package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// ErrTooFewVertices is returned for decoded lines with fewer than two vertices.
var ErrTooFewVertices = errors.New("geo: line has fewer than 2 vertices")

// DecodeError describes a malformed polyline. Err is the codec's error.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("geo: malformed polyline: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeReason(err error) string {
	switch {
	case errors.Is(err, polyline.ErrEmpty):
		return "odd number of values, latitude without longitude"
	case errors.Is(err, polyline.ErrUnterminatedSequence):
		return "unterminated value"
	case errors.Is(err, polyline.ErrInvalidByte):
		return "byte outside the encoding range"
	case errors.Is(err, polyline.ErrOverflow):
		return "value overflows"
	}
	return err.Error()
}

// DecodePolyline decodes an encoded polyline (precision 1e5) into (lon, lat)
// vertices. The encoding stores latitude first. An empty string decodes to
// an empty line.
func DecodePolyline(encoded string) (orb.LineString, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, &DecodeError{Reason: decodeReason(err), Err: err}
	}

	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = LatLon(c[0], c[1])
	}
	return line, nil
}

// DecodeLine decodes a polyline and rejects lines shorter than two vertices.
func DecodeLine(encoded string) (orb.LineString, error) {
	line, err := DecodePolyline(encoded)
	if err != nil {
		return nil, err
	}
	if len(line) < 2 {
		return nil, ErrTooFewVertices
	}
	return line, nil
}
