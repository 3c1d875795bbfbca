package handler

import (
	"context"
	"net/http"

	"outage-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles address search requests
type SearchHandler struct {
	service SearchService
}

// SearchService interface for dependency injection
type SearchService interface {
	Search(context.Context, models.SearchQuery) ([]models.SearchResult, error)
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Search handles GET /search requests
//
//	@Summary	Search addresses by text and/or proximity
//	@Tags		search
//	@Produce	json
//	@Param		q		query		string	false	"search term"
//	@Param		lat		query		number	false	"reference latitude"
//	@Param		lon		query		number	false	"reference longitude"
//	@Param		limit	query		int		false	"maximum results"
//	@Param		fields	query		string	false	"street or full"
//	@Param		radius	query		number	false	"radius in meters around the reference point"
//	@Success	200		{array}		models.SearchResult
//	@Failure	400		{object}	map[string]string
//	@Router		/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	ref, err := pointQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		respondError(c, err)
		return
	}
	radius, _, err := floatQuery(c, "radius")
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.service.Search(c.Request.Context(), models.SearchQuery{
		Term:         c.Query("q"),
		Reference:    ref,
		Limit:        limit,
		Fields:       models.SearchFields(c.Query("fields")),
		RadiusMeters: radius,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
