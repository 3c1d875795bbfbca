package handler

import (
	"strconv"

	"outage-api/internal/geo"
	"outage-api/internal/models"
	"outage-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
)

func badParam(name, reason string) error {
	return &service.QueryError{Field: name, Reason: reason}
}

// floatQuery parses an optional float query parameter. ok reports whether
// the parameter was present.
func floatQuery(c *gin.Context, name string) (v float64, ok bool, err error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, badParam(name, "must be a number")
	}
	return v, true, nil
}

func requiredFloat(c *gin.Context, name string) (float64, error) {
	v, ok, err := floatQuery(c, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, badParam(name, "is required")
	}
	return v, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam(name, "must be an integer")
	}
	return v, nil
}

// pointQuery reads lat and lon. Both or neither must be given.
func pointQuery(c *gin.Context) (*orb.Point, error) {
	lat, hasLat, err := floatQuery(c, "lat")
	if err != nil {
		return nil, err
	}
	lon, hasLon, err := floatQuery(c, "lon")
	if err != nil {
		return nil, err
	}
	if hasLat != hasLon {
		return nil, badParam("position", "lat and lon must be given together")
	}
	if !hasLat {
		return nil, nil
	}
	p := geo.LatLon(lat, lon)
	return &p, nil
}

// boundsQuery reads a viewport from sw_lat, sw_lon, ne_lat and ne_lon.
// Range checks are left to the service.
func boundsQuery(c *gin.Context) (geo.Bounds, error) {
	var v [4]float64
	for i, name := range []string{"sw_lat", "sw_lon", "ne_lat", "ne_lon"} {
		f, err := requiredFloat(c, name)
		if err != nil {
			return geo.Bounds{}, err
		}
		v[i] = f
	}
	return geo.NewBounds(geo.LatLon(v[0], v[1]), geo.LatLon(v[2], v[3])), nil
}

func lineKindParam(c *gin.Context) (models.LineKind, error) {
	kind, err := models.ParseLineKind(c.Param("kind"))
	if err != nil {
		return "", badParam("kind", "must be service or outage")
	}
	return kind, nil
}
