package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mongorepo "github.com/notewell/notewell/internal/repositories/mongo"
	"github.com/notewell/notewell/internal/utils"
)

type AuditHandler struct {
	repo mongorepo.AuditRepo
}

func NewAuditHandler(repo mongorepo.AuditRepo) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListRecent returns the newest audit events. Available only when the audit
// trail is persisted to Mongo.
func (h *AuditHandler) ListRecent(c *gin.Context) {
	const op = "AuditHandler.ListRecent"

	if h.repo == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "audit trail persistence is not configured", nil))
		return
	}

	limit := intQuery(c, "limit", 100)
	events, err := h.repo.ListRecent(c.Request.Context(), int64(limit))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to load audit events", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
