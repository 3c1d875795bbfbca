package handler

import (
	"context"
	"net/http"

	"outage-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
)

// IncidentHandler serves the reported outage incidents
type IncidentHandler struct {
	service IncidentService
}

// IncidentService interface for dependency injection
type IncidentService interface {
	Nearby(ctx context.Context, p orb.Point, radiusMeters float64) ([]models.NearbyIncident, error)
	ZipSummary(ctx context.Context, zipcode string) (models.ZipOutageSummary, error)
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(svc IncidentService) *IncidentHandler {
	return &IncidentHandler{service: svc}
}

// Nearby handles GET /incidents/nearby requests
//
//	@Summary	Reported outage incidents within a radius, nearest first
//	@Tags		incidents
//	@Produce	json
//	@Param		lat		query		number	true	"latitude"
//	@Param		lon		query		number	true	"longitude"
//	@Param		radius	query		number	true	"radius in meters"
//	@Success	200		{array}		models.NearbyIncident
//	@Failure	400		{object}	map[string]string
//	@Router		/incidents/nearby [get]
func (h *IncidentHandler) Nearby(c *gin.Context) {
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

	incidents, err := h.service.Nearby(c.Request.Context(), *p, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, incidents)
}

// ZipSummary handles GET /incidents/zip/:zip requests
//
//	@Summary	Incident totals for one zip code
//	@Tags		incidents
//	@Produce	json
//	@Param		zip	path		string	true	"zip code"
//	@Success	200	{object}	models.ZipOutageSummary
//	@Failure	400	{object}	map[string]string
//	@Router		/incidents/zip/{zip} [get]
func (h *IncidentHandler) ZipSummary(c *gin.Context) {
	summary, err := h.service.ZipSummary(c.Request.Context(), c.Param("zip"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
