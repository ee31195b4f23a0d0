package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/services"
	"github.com/notewell/notewell/internal/utils"
)

type SessionHandler struct {
	analysis services.AnalysisService
	sessions services.SessionService

	// llmEnabled gates the model path globally; requests cannot turn it back on.
	llmEnabled bool
}

func NewSessionHandler(analysis services.AnalysisService, sessions services.SessionService, llmEnabled bool) *SessionHandler {
	return &SessionHandler{analysis: analysis, sessions: sessions, llmEnabled: llmEnabled}
}

type AnalyzeRequest struct {
	Transcript   string         `json:"transcript" binding:"required"`
	UseLLM       *bool          `json:"use_llm"`       // default true
	ForceRefresh bool           `json:"force_refresh"` // evict cached analysis first
	Save         *bool          `json:"save"`          // default true
	Metadata     map[string]any `json:"metadata"`
}

type AnalyzeResponse struct {
	SessionID string                  `json:"session_id,omitempty"`
	Duplicate bool                    `json:"duplicate"`
	Session   *models.Session         `json:"session,omitempty"`
	Analysis  models.ClinicalAnalysis `json:"analysis"`
}

func (h *SessionHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Analyze", "invalid request body", err))
		return
	}

	useLLM := h.llmEnabled && (req.UseLLM == nil || *req.UseLLM)
	save := req.Save == nil || *req.Save
	ctx := c.Request.Context()

	// A transcript analyzed before comes back from storage instead of being
	// re-analyzed, unless the caller forces a refresh.
	if save && !req.ForceRefresh {
		dup, err := h.sessions.FindDuplicate(ctx, req.Transcript)
		if err != nil {
			writeError(c, err)
			return
		}
		if dup != nil {
			c.JSON(http.StatusOK, AnalyzeResponse{
				SessionID: dup.ID,
				Duplicate: true,
				Session:   dup,
				Analysis:  services.AnalysisFromSession(dup),
			})
			return
		}
	}

	analysis, err := h.analysis.Analyze(ctx, req.Transcript, useLLM, req.ForceRefresh)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := AnalyzeResponse{Analysis: analysis}
	if save {
		sess, err := h.sessions.Create(ctx, req.Transcript, analysis, "", req.Metadata)
		if err != nil {
			writeError(c, err)
			return
		}
		resp.SessionID = sess.ID
		resp.Session = sess
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type ListSessionsResponse struct {
	Sessions []models.Session `json:"sessions"`
	Total    int64            `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

func (h *SessionHandler) List(c *gin.Context) {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", 20)

	rows, total, err := h.sessions.List(c.Request.Context(), skip, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	if rows == nil {
		rows = []models.Session{}
	}
	c.JSON(http.StatusOK, ListSessionsResponse{Sessions: rows, Total: total, Skip: skip, Limit: limit})
}

// Reanalyze re-runs the stored transcript through the model path with the
// cache evicted and replaces the stored analysis.
func (h *SessionHandler) Reanalyze(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("session_id")

	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	analysis, err := h.analysis.Analyze(ctx, sess.Transcript, h.llmEnabled, true)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.sessions.UpdateAnalysis(ctx, id, analysis)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{SessionID: updated.ID, Session: updated, Analysis: analysis})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	deleted, err := h.sessions.Delete(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !deleted {
		writeError(c, utils.E(utils.CodeNotFound, "SessionHandler.Delete", "session not found", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
