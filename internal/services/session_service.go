package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/notewell/notewell/internal/fingerprint"
	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/repositories/postgres"
	"github.com/notewell/notewell/internal/security"
	"github.com/notewell/notewell/internal/utils"
)

// SessionService persists analyzed sessions and serves the session history.
type SessionService interface {
	Create(ctx context.Context, transcript string, analysis models.ClinicalAnalysis, audioPath string, extra map[string]any) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, skip, limit int) ([]models.Session, int64, error)
	UpdateAnalysis(ctx context.Context, id string, analysis models.ClinicalAnalysis) (*models.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	FindDuplicate(ctx context.Context, transcript string) (*models.Session, error)
}

type sessionService struct {
	repo  postgres.SessionRepo
	audit *security.AuditLogger
	log   *logrus.Logger
}

func NewSessionService(repo postgres.SessionRepo, audit *security.AuditLogger, log *logrus.Logger) SessionService {
	return &sessionService{repo: repo, audit: audit, log: log}
}

func (s *sessionService) Create(ctx context.Context, transcript string, analysis models.ClinicalAnalysis, audioPath string, extra map[string]any) (*models.Session, error) {
	const op = "SessionService.Create"

	meta, err := analysisMetadata(analysis, extra)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode session metadata", err)
	}

	now := time.Now().UTC()
	row := &models.Session{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		UpdatedAt:     now,
		Summary:       analysis.Summary,
		Diagnosis:     analysis.Diagnosis,
		ContentHash:   fingerprint.Text(transcript),
		AudioFilePath: audioPath,
		Transcript:    transcript,
		Metadata:      meta,
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}

	s.audit.LogSessionAccess(ctx, row.ID, "create", "")
	s.log.WithFields(logrus.Fields{"session_id": row.ID, "category": analysis.Category}).Info("session saved")
	return row, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	const op = "SessionService.Get"

	row, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}

	s.audit.LogSessionAccess(ctx, id, "read", "")
	return row, nil
}

func (s *sessionService) List(ctx context.Context, skip, limit int) ([]models.Session, int64, error) {
	const op = "SessionService.List"

	rows, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return rows, total, nil
}

// UpdateAnalysis replaces the stored analysis for a session, typically after a
// forced reanalysis. Transcript and content hash are immutable.
func (s *sessionService) UpdateAnalysis(ctx context.Context, id string, analysis models.ClinicalAnalysis) (*models.Session, error) {
	const op = "SessionService.UpdateAnalysis"

	meta, err := analysisMetadata(analysis, nil)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode session metadata", err)
	}

	fields := map[string]any{
		"summary":    analysis.Summary,
		"diagnosis":  analysis.Diagnosis,
		"metadata":   meta,
		"updated_at": time.Now().UTC(),
	}

	err = s.repo.Update(ctx, id, fields)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update session", err)
	}

	s.audit.LogSessionAccess(ctx, id, "update", "")
	return s.repo.GetByID(ctx, id)
}

func (s *sessionService) Delete(ctx context.Context, id string) (bool, error) {
	const op = "SessionService.Delete"

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, utils.E(utils.CodeInternal, op, "failed to delete session", err)
	}

	if deleted {
		s.audit.LogSessionAccess(ctx, id, "delete", "")
	}
	return deleted, nil
}

// FindDuplicate looks up a previously saved session with the same transcript
// fingerprint. A nil, nil return means no duplicate exists.
func (s *sessionService) FindDuplicate(ctx context.Context, transcript string) (*models.Session, error) {
	const op = "SessionService.FindDuplicate"

	row, err := s.repo.FindByContentHash(ctx, fingerprint.Text(transcript))
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "duplicate lookup failed", err)
	}
	return row, nil
}

// AnalysisFromSession rebuilds the stored ClinicalAnalysis from a session row.
// The list fields, category and confidence live in the metadata column.
func AnalysisFromSession(s *models.Session) models.ClinicalAnalysis {
	out := models.ClinicalAnalysis{
		Summary:   s.Summary,
		Diagnosis: s.Diagnosis,
	}

	var meta struct {
		KeyPoints     []string        `json:"key_points"`
		TreatmentPlan []string        `json:"treatment_plan"`
		Category      models.Category `json:"category"`
		Confidence    float64         `json:"confidence"`
	}
	if len(s.Metadata) > 0 && json.Unmarshal(s.Metadata, &meta) == nil {
		out.KeyPoints = meta.KeyPoints
		out.TreatmentPlan = meta.TreatmentPlan
		out.Category = meta.Category
		out.Confidence = meta.Confidence
	}
	return out
}

func analysisMetadata(analysis models.ClinicalAnalysis, extra map[string]any) (datatypes.JSON, error) {
	meta := map[string]any{
		"key_points":     analysis.KeyPoints,
		"treatment_plan": analysis.TreatmentPlan,
		"category":       analysis.Category,
		"confidence":     analysis.Confidence,
	}
	for k, v := range extra {
		meta[k] = v
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
