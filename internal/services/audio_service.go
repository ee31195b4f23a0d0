package services

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/internal/cache"
	"github.com/notewell/notewell/internal/fingerprint"
	"github.com/notewell/notewell/internal/providers/stt"
	"github.com/notewell/notewell/internal/security"
	"github.com/notewell/notewell/internal/storage"
	"github.com/notewell/notewell/internal/utils"
)

const (
	transcriptionKeyPrefix = "transcription:"
	// cachedConfidence is reported for cache hits, where the original
	// per-utterance confidence is no longer available.
	cachedConfidence        = 0.85
	defaultTranscriptionTTL = time.Hour
)

// TranscriptionResult is what the audio pipeline hands back to callers.
type TranscriptionResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Cached     bool    `json:"cached"`
	AudioPath  string  `json:"audio_path,omitempty"`
}

// AudioService transcribes uploaded audio, caching results by content hash so
// re-uploads of the same recording skip the speech model entirely.
type AudioService interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (TranscriptionResult, error)
}

// ProviderFactory builds the speech provider on first use. Loading speech
// models is expensive, so it is deferred until a request actually needs one.
type ProviderFactory func(ctx context.Context) (stt.Provider, error)

type audioService struct {
	cache    cache.Cache
	factory  ProviderFactory
	store    storage.Uploader
	audit    *security.AuditLogger
	log      *logrus.Logger
	ttl      time.Duration
	language string
	maxBytes int64

	mu       sync.Mutex
	provider stt.Provider
}

func NewAudioService(transcriptionCache cache.Cache, factory ProviderFactory, store storage.Uploader, audit *security.AuditLogger, log *logrus.Logger, ttl time.Duration, language string, maxBytes int64) AudioService {
	if ttl <= 0 {
		ttl = defaultTranscriptionTTL
	}
	return &audioService{
		cache:    transcriptionCache,
		factory:  factory,
		store:    store,
		audit:    audit,
		log:      log,
		ttl:      ttl,
		language: language,
		maxBytes: maxBytes,
	}
}

func (s *audioService) Transcribe(ctx context.Context, audio []byte, filename string) (TranscriptionResult, error) {
	const op = "AudioService.Transcribe"
	start := time.Now()

	if err := security.ValidateAudioUpload(filename, int64(len(audio)), s.maxBytes); err != nil {
		s.audit.LogDataProcessing(ctx, "audio_transcription", "audio", time.Since(start).Milliseconds(), false, err.Error(), nil)
		return TranscriptionResult{}, err
	}

	key := transcriptionKeyPrefix + fingerprint.Audio(audio)

	var cachedText string
	if hit, err := s.cache.GetJSON(ctx, key, &cachedText); err == nil && hit {
		s.log.Info("transcription cache hit")
		s.audit.LogDataProcessing(ctx, "audio_transcription", "audio", time.Since(start).Milliseconds(), true, "",
			map[string]any{"cached": true})
		return TranscriptionResult{Transcript: cachedText, Confidence: cachedConfidence, Cached: true}, nil
	}

	provider, err := s.getProvider(ctx)
	if err != nil {
		s.audit.LogDataProcessing(ctx, "audio_transcription", "audio", time.Since(start).Milliseconds(), false, err.Error(), nil)
		return TranscriptionResult{}, utils.E(utils.CodeUnavailable, op, "speech model unavailable", err)
	}

	text, confidence, err := provider.Transcribe(ctx, audio, s.language)
	if err != nil {
		s.audit.LogDataProcessing(ctx, "audio_transcription", "audio", time.Since(start).Milliseconds(), false, err.Error(), nil)
		return TranscriptionResult{}, utils.E(utils.CodeUnprocessable, op, "transcription failed", err)
	}

	if err := s.cache.SetJSON(ctx, key, text, s.ttl); err != nil {
		s.log.WithError(err).Warn("failed to cache transcription")
	}

	result := TranscriptionResult{Transcript: text, Confidence: confidence}
	result.AudioPath = s.archive(ctx, audio, filename)

	s.audit.LogDataProcessing(ctx, "audio_transcription", "audio", time.Since(start).Milliseconds(), true, "",
		map[string]any{"cached": false, "transcript_chars": len(text)})
	return result, nil
}

// archive keeps the original recording around for clinical review. Archival
// failures are logged but never fail the transcription.
func (s *audioService) archive(ctx context.Context, audio []byte, filename string) string {
	if s.store == nil {
		return ""
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectName := uuid.NewString() + ext

	path, err := s.store.Upload(ctx, objectName, contentTypeFor(ext), bytes.NewReader(audio))
	if err != nil {
		s.log.WithError(err).Warn("failed to archive audio")
		return ""
	}
	return path
}

func (s *audioService) getProvider(ctx context.Context) (stt.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return s.provider, nil
	}

	s.log.Info("loading speech provider")
	p, err := s.factory(ctx)
	if err != nil {
		return nil, err
	}
	s.provider = p
	return p, nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}
