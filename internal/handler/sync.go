package handler

import (
	"context"
	"errors"
	"net/http"

	"outage-api/internal/ingest"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SyncHandler triggers table synchronizations on demand
type SyncHandler struct {
	syncer Synchronizer
}

// Synchronizer interface for dependency injection
type Synchronizer interface {
	Synchronize(ctx context.Context, table string) (ingest.Result, error)
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncer Synchronizer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// Sync handles POST /admin/sync/:table requests. The run is detached from
// the client connection so a dropped request cannot abort a replace.
//
//	@Summary	Synchronize one table from its source
//	@Tags		admin
//	@Produce	json
//	@Param		table	path		string	true	"addresses, service_lines, outage_lines or outage_incidents"
//	@Success	200		{object}	ingest.Result
//	@Failure	404		{object}	map[string]string
//	@Failure	502		{object}	map[string]string
//	@Security	BearerAuth
//	@Router		/admin/sync/{table} [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	table := c.Param("table")

	res, err := h.syncer.Synchronize(context.WithoutCancel(c.Request.Context()), table)
	if err != nil {
		var ingestErr *ingest.IngestError
		switch {
		case errors.Is(err, ingest.ErrUnknownTable):
			c.JSON(http.StatusNotFound, gin.H{"error": "no source configured for table " + table})
		case errors.As(err, &ingestErr) && ingestErr.Op != ingest.OpReplace:
			log.Warn().Err(err).Msg("manual synchronization failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, res)
}
