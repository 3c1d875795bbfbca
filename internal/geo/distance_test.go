package geo

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/umahmood/haversine"
)

func randomPoint(r *rand.Rand, center orb.Point, spread float64) orb.Point {
	return LonLat(
		center.Lon()+(r.Float64()*2-1)*spread,
		center.Lat()+(r.Float64()*2-1)*spread,
	)
}

func TestDistance_Identity(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		p := LonLat(r.Float64()*360-180, r.Float64()*180-90)
		assert.InDelta(t, 0, Distance(p, p), 1e-6)
	}
}

func TestDistance_SymmetryAndTriangle(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	center := LonLat(-105.0, 39.55)
	for i := 0; i < 500; i++ {
		a := randomPoint(r, center, 0.5)
		b := randomPoint(r, center, 0.5)
		c := randomPoint(r, center, 0.5)

		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
		assert.LessOrEqual(t, Distance(a, c), Distance(a, b)+Distance(b, c)+1e-6)
	}
}

func TestDistance_MatchesHaversine(t *testing.T) {
	tests := []struct {
		name string
		a, b orb.Point
	}{
		{name: "denver to boulder", a: LatLon(39.7392, -104.9903), b: LatLon(40.01499, -105.27055)},
		{name: "short hop", a: LatLon(39.55, -105.0), b: LatLon(39.5505, -105.0005)},
		{name: "across the equator", a: LatLon(-1.0, 10.0), b: LatLon(1.0, 10.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, km := haversine.Distance(
				haversine.Coord{Lat: tt.a.Lat(), Lon: tt.a.Lon()},
				haversine.Coord{Lat: tt.b.Lat(), Lon: tt.b.Lon()},
			)
			assert.InEpsilon(t, km*1000, Distance(tt.a, tt.b), 1e-4)
		})
	}
}

func TestDistance_OneDegreeOfLatitude(t *testing.T) {
	d := Distance(LatLon(0, 0), LatLon(1, 0))
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, d, 1e-3)
}

func TestLatLonKeepsAxisOrder(t *testing.T) {
	p := LatLon(39.55, -105.0)
	assert.Equal(t, -105.0, p.Lon())
	assert.Equal(t, 39.55, p.Lat())
	assert.Equal(t, p, LonLat(-105.0, 39.55))
}

func TestValidPoint(t *testing.T) {
	assert.True(t, ValidPoint(LonLat(-105, 39.5)))
	assert.True(t, ValidPoint(LonLat(180, -90)))
	assert.False(t, ValidPoint(LonLat(39.5, -105)))
	assert.False(t, ValidPoint(LonLat(math.NaN(), 0)))
	assert.False(t, ValidPoint(LonLat(0, math.Inf(1))))
}

func TestPointToLine(t *testing.T) {
	address := LonLat(-105.00, 39.55)
	// ~50 m north of the address, 1 degree latitude ~ 111.2 km
	north := 50.0 / 111195.0

	tests := []struct {
		name     string
		line     orb.LineString
		expected float64
		delta    float64
	}{
		{
			name:     "line passing 50m north",
			line:     orb.LineString{LonLat(-105.001, 39.55+north), LonLat(-104.999, 39.55+north)},
			expected: 50,
			delta:    0.5,
		},
		{
			name:     "point on a vertex",
			line:     orb.LineString{address, LonLat(-104.99, 39.56)},
			expected: 0,
			delta:    1e-6,
		},
		{
			name:     "closest point is the segment end",
			line:     orb.LineString{LonLat(-105.01, 39.55), LonLat(-105.002, 39.55)},
			expected: Distance(address, LonLat(-105.002, 39.55)),
			delta:    1e-6,
		},
		{
			name:     "second segment is closer",
			line:     orb.LineString{LonLat(-105.1, 39.6), LonLat(-105.0005, 39.6), LonLat(-105.0005, 39.5)},
			expected: Distance(address, LonLat(-105.0005, 39.55)),
			delta:    1e-3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PointToLine(address, tt.line), tt.delta)
		})
	}
}

func TestPointToLine_Degenerate(t *testing.T) {
	p := LonLat(-105, 39.55)
	assert.True(t, math.IsInf(PointToLine(p, nil), 1))

	single := orb.LineString{LonLat(-105, 39.56)}
	assert.InDelta(t, Distance(p, single[0]), PointToLine(p, single), 1e-9)

	collapsed := orb.LineString{LonLat(-105, 39.56), LonLat(-105, 39.56)}
	assert.InDelta(t, Distance(p, collapsed[0]), PointToLine(p, collapsed), 1e-9)
}
