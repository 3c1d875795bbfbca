package handler

import (
	"context"
	"net/http"

	"outage-api/internal/geo"
	"outage-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RegionHandler serves map viewport and nearby-line queries
type RegionHandler struct {
	service RegionService
}

// RegionService interface for dependency injection
type RegionService interface {
	MapAddresses(ctx context.Context, b geo.Bounds, zoom int) (models.AddressMap, error)
	ClustersInBounds(ctx context.Context, b geo.Bounds) ([]models.AddressCluster, error)
	LinesInBounds(ctx context.Context, kind models.LineKind, b geo.Bounds) ([]models.LineString, error)
	NearbyLines(ctx context.Context, kind models.LineKind, p orb.Point, radiusMeters float64) ([]models.NearbyLine, error)
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(svc RegionService) *RegionHandler {
	return &RegionHandler{service: svc}
}

// MapAddresses handles GET /map/addresses requests. Without zoom the
// viewport is clustered.
//
//	@Summary	Addresses or clusters inside a viewport
//	@Tags		map
//	@Produce	json
//	@Param		sw_lat	query		number	true	"south-west latitude"
//	@Param		sw_lon	query		number	true	"south-west longitude"
//	@Param		ne_lat	query		number	true	"north-east latitude"
//	@Param		ne_lon	query		number	true	"north-east longitude"
//	@Param		zoom	query		int		false	"map zoom level"
//	@Success	200		{object}	models.AddressMap
//	@Failure	400		{object}	map[string]string
//	@Router		/map/addresses [get]
func (h *RegionHandler) MapAddresses(c *gin.Context) {
	b, err := boundsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	zoom, err := intQuery(c, "zoom")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.service.MapAddresses(c.Request.Context(), b, zoom)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Clusters handles GET /map/clusters requests
//
//	@Summary	Grid clusters of addresses inside a viewport
//	@Tags		map
//	@Produce	json
//	@Param		sw_lat	query	number	true	"south-west latitude"
//	@Param		sw_lon	query	number	true	"south-west longitude"
//	@Param		ne_lat	query	number	true	"north-east latitude"
//	@Param		ne_lon	query	number	true	"north-east longitude"
//	@Success	200		{array}	models.AddressCluster
//	@Router		/map/clusters [get]
func (h *RegionHandler) Clusters(c *gin.Context) {
	b, err := boundsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	clusters, err := h.service.ClustersInBounds(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clusters)
}

// Lines handles GET /map/lines/:kind requests and answers with a GeoJSON
// FeatureCollection.
//
//	@Summary	Service or outage lines inside a viewport
//	@Tags		map
//	@Produce	json
//	@Param		kind	path	string	true	"service or outage"
//	@Param		sw_lat	query	number	true	"south-west latitude"
//	@Param		sw_lon	query	number	true	"south-west longitude"
//	@Param		ne_lat	query	number	true	"north-east latitude"
//	@Param		ne_lon	query	number	true	"north-east longitude"
//	@Success	200		{object}	object	"GeoJSON FeatureCollection"
//	@Router		/map/lines/{kind} [get]
func (h *RegionHandler) Lines(c *gin.Context) {
	kind, err := lineKindParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := boundsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	lines, err := h.service.LinesInBounds(c.Request.Context(), kind, b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, featureCollection(kind, lines))
}

// NearbyLines handles GET /lines/:kind/nearby requests
//
//	@Summary	Lines within a radius of a point, nearest first
//	@Tags		lines
//	@Produce	json
//	@Param		kind	path	string	true	"service or outage"
//	@Param		lat		query	number	true	"latitude"
//	@Param		lon		query	number	true	"longitude"
//	@Param		radius	query	number	true	"radius in meters"
//	@Success	200		{array}	models.NearbyLine
//	@Router		/lines/{kind}/nearby [get]
func (h *RegionHandler) NearbyLines(c *gin.Context) {
	kind, err := lineKindParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := pointQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		respondError(c, badParam("position", "lat and lon are required"))
		return
	}
	radius, err := requiredFloat(c, "radius")
	if err != nil {
		respondError(c, err)
		return
	}

	nearby, err := h.service.NearbyLines(c.Request.Context(), kind, *p, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nearby)
}

func featureCollection(kind models.LineKind, lines []models.LineString) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range lines {
		f := geojson.NewFeature(l.Coordinates)
		f.Properties["kind"] = string(kind)
		if l.ID != "" {
			f.ID = l.ID
			f.Properties["line_id"] = l.ID
		}
		fc.Append(f)
	}
	return fc
}
