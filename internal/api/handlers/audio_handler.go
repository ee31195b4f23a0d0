package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/services"
	"github.com/notewell/notewell/internal/utils"
)

type AudioHandler struct {
	audio    services.AudioService
	analysis services.AnalysisService
	sessions services.SessionService

	llmEnabled bool
	maxBytes   int64
}

func NewAudioHandler(audio services.AudioService, analysis services.AnalysisService, sessions services.SessionService, llmEnabled bool, maxBytes int64) *AudioHandler {
	return &AudioHandler{
		audio:      audio,
		analysis:   analysis,
		sessions:   sessions,
		llmEnabled: llmEnabled,
		maxBytes:   maxBytes,
	}
}

type UploadResponse struct {
	Transcription services.TranscriptionResult `json:"transcription"`
	Analysis      *models.ClinicalAnalysis     `json:"analysis,omitempty"`
	SessionID     string                       `json:"session_id,omitempty"`
}

// Upload accepts a multipart audio file, transcribes it and, unless disabled
// via analyze=false, runs the transcript through clinical analysis.
func (h *AudioHandler) Upload(c *gin.Context) {
	const op = "AudioHandler.Upload"

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing audio file", err))
		return
	}
	if fh.Size > h.maxBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}

	ctx := c.Request.Context()

	result, err := h.audio.Transcribe(ctx, audio, fh.Filename)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := UploadResponse{Transcription: result}

	if c.DefaultQuery("analyze", "true") == "true" {
		analysis, err := h.analysis.Analyze(ctx, result.Transcript, h.llmEnabled, false)
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Analysis = &analysis

		if c.DefaultQuery("save", "true") == "true" {
			sess, err := h.sessions.Create(ctx, result.Transcript, analysis, result.AudioPath,
				map[string]any{"source": "audio_upload", "filename": fh.Filename})
			if err != nil {
				writeError(c, err)
				return
			}
			resp.SessionID = sess.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}
