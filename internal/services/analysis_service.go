package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/internal/cache"
	"github.com/notewell/notewell/internal/fingerprint"
	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/normalize"
	"github.com/notewell/notewell/internal/providers/llm"
	"github.com/notewell/notewell/internal/rules"
	"github.com/notewell/notewell/internal/security"
	"github.com/notewell/notewell/internal/utils"
)

// llmConfidence is assigned to model-produced analyses; templated fallbacks
// carry their own per-category confidence.
const llmConfidence = 0.85

const analysisKeyPrefix = "analysis:"

// AnalysisService is the orchestration core: it decides between the external
// model path and the rule-based path, applies the analysis cache, and emits
// exactly one audit event per invocation.
type AnalysisService interface {
	Analyze(ctx context.Context, transcript string, useExternal, forceRefresh bool) (models.ClinicalAnalysis, error)
}

type analysisService struct {
	llm             llm.Provider
	cache           cache.Cache
	audit           *security.AuditLogger
	log             *logrus.Logger
	fallbackEnabled bool
}

func NewAnalysisService(provider llm.Provider, analysisCache cache.Cache, audit *security.AuditLogger, log *logrus.Logger, fallbackEnabled bool) AnalysisService {
	return &analysisService{
		llm:             provider,
		cache:           analysisCache,
		audit:           audit,
		log:             log,
		fallbackEnabled: fallbackEnabled,
	}
}

func (s *analysisService) Analyze(ctx context.Context, transcript string, useExternal, forceRefresh bool) (models.ClinicalAnalysis, error) {
	const op = "AnalysisService.Analyze"
	start := time.Now()

	if err := security.ValidateTranscript(transcript); err != nil {
		s.audit.LogDataProcessing(ctx, "clinical_analysis", "transcript", time.Since(start).Milliseconds(), false, err.Error(), nil)
		return models.ClinicalAnalysis{}, err
	}

	key := analysisKeyPrefix + fingerprint.Text(transcript)

	if forceRefresh && useExternal {
		if err := s.cache.Del(ctx, key); err != nil {
			s.log.WithError(err).Warn("failed to evict analysis cache entry")
		} else {
			s.log.WithField("key", key[:len(analysisKeyPrefix)+8]).Info("cleared cache for forced reanalysis")
		}
	}

	if useExternal {
		analysis, err := s.analyzeExternal(ctx, transcript, key)
		if err == nil {
			s.audit.LogDataProcessing(ctx, "clinical_analysis_llm", "transcript", time.Since(start).Milliseconds(), true, "",
				map[string]any{"forced": forceRefresh})
			return analysis, nil
		}

		if !utils.IsCode(err, utils.CodeExternal) {
			s.audit.LogDataProcessing(ctx, "clinical_analysis", "transcript", time.Since(start).Milliseconds(), false, err.Error(), nil)
			return models.ClinicalAnalysis{}, utils.E(utils.CodeUnprocessable, op, "analysis failed", err)
		}

		s.log.WithError(err).Warn("external model analysis failed")
		if !s.fallbackEnabled {
			s.audit.LogDataProcessing(ctx, "clinical_analysis", "transcript", time.Since(start).Milliseconds(), false, err.Error(), nil)
			return models.ClinicalAnalysis{}, utils.E(utils.CodeUnprocessable, op, "model analysis failed and fallback is disabled", err)
		}
		s.log.Info("using rule-based analysis as fallback")
	}

	category := rules.Classify(transcript)
	analysis := rules.Render(category)

	s.audit.LogDataProcessing(ctx, "clinical_analysis_rule_based", "transcript", time.Since(start).Milliseconds(), true, "", nil)
	return analysis, nil
}

// analyzeExternal runs the model path: cache lookup, model invocation, output
// normalization, cache population. The rule-based path never touches the cache.
func (s *analysisService) analyzeExternal(ctx context.Context, transcript, key string) (models.ClinicalAnalysis, error) {
	var cached models.ClinicalAnalysis
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		s.log.WithField("key", key[:len(analysisKeyPrefix)+8]).Info("analysis cache hit")
		return cached, nil
	}

	raw, err := s.llm.Analyze(ctx, transcript)
	if err != nil {
		return models.ClinicalAnalysis{}, err
	}

	analysis := normalize.Analysis(raw)
	analysis.Category = rules.Classify(transcript)
	analysis.Confidence = llmConfidence

	if err := s.cache.SetJSON(ctx, key, analysis, 0); err != nil {
		s.log.WithError(err).Warn("failed to cache analysis")
	}
	return analysis, nil
}
