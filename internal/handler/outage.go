package handler

import (
	"context"
	"net/http"
	"strconv"

	"outage-api/internal/models"

	"github.com/gin-gonic/gin"
)

// OutageHandler handles outage status requests
type OutageHandler struct {
	service OutageService
}

// OutageService interface for dependency injection
type OutageService interface {
	Status(ctx context.Context, addressID int64, thresholdMeters float64) (models.OutageStatus, error)
	StatusMany(ctx context.Context, ids []int64, thresholdMeters float64) ([]models.OutageStatus, error)
}

// NewOutageHandler creates a new outage handler
func NewOutageHandler(svc OutageService) *OutageHandler {
	return &OutageHandler{service: svc}
}

// StatusRequest is the body of POST /outages/status.
type StatusRequest struct {
	IDs             []int64 `json:"ids"`
	ThresholdMeters float64 `json:"threshold_meters"`
}

// Status handles GET /outages/:id requests. Unknown addresses are answered
// with address_found false and status unknown.
//
//	@Summary	Outage status of one address
//	@Tags		outages
//	@Produce	json
//	@Param		id			path		int		true	"address id"
//	@Param		threshold	query		number	false	"outage threshold in meters"
//	@Success	200			{object}	models.OutageStatus
//	@Failure	400			{object}	map[string]string
//	@Router		/outages/{id} [get]
func (h *OutageHandler) Status(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, badParam("id", "must be an integer address id"))
		return
	}
	threshold, _, err := floatQuery(c, "threshold")
	if err != nil {
		respondError(c, err)
		return
	}

	status, err := h.service.Status(c.Request.Context(), id, threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// StatusMany handles POST /outages/status requests
//
//	@Summary	Outage status of a watch list
//	@Tags		outages
//	@Accept		json
//	@Produce	json
//	@Param		request	body	StatusRequest	true	"address ids and optional threshold"
//	@Success	200		{array}	models.OutageStatus
//	@Failure	400		{object}	map[string]string
//	@Router		/outages/status [post]
func (h *OutageHandler) StatusMany(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badParam("body", "expected {\"ids\": [...], \"threshold_meters\": n}"))
		return
	}

	statuses, err := h.service.StatusMany(c.Request.Context(), req.IDs, req.ThresholdMeters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
