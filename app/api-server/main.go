package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/config"
	"github.com/notewell/notewell/internal/api/handlers"
	"github.com/notewell/notewell/internal/api/middleware"
	"github.com/notewell/notewell/internal/api/routes"
	"github.com/notewell/notewell/internal/cache"
	"github.com/notewell/notewell/internal/logger"
	"github.com/notewell/notewell/internal/models"
	"github.com/notewell/notewell/internal/providers/llm"
	"github.com/notewell/notewell/internal/providers/stt"
	mongorepo "github.com/notewell/notewell/internal/repositories/mongo"
	"github.com/notewell/notewell/internal/repositories/postgres"
	"github.com/notewell/notewell/internal/security"
	"github.com/notewell/notewell/internal/services"
	"github.com/notewell/notewell/internal/storage"
	"github.com/notewell/notewell/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx := context.Background()

	// PostgreSQL is required; everything else degrades gracefully.
	db, err := config.OpenPostgres(cfg.PostgresURI)
	if err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		log.WithError(err).Fatal("postgres migration failed")
	}
	log.Info("postgres connected")

	rdb, err := config.OpenRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, using in-memory caches")
		rdb = nil
	} else {
		log.Info("redis connected")
	}

	// Audit trail persists to Mongo when configured; the structured log always
	// carries the events regardless.
	var auditRepo mongorepo.AuditRepo
	if cfg.MongoURI != "" {
		mc, err := config.OpenMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Warn("mongo unavailable, audit trail is log-only")
		} else {
			auditRepo = mongorepo.NewAuditRepo(mc.Database(cfg.MongoDatabase), cfg.MongoAuditCollection)
			log.Info("mongo connected")
		}
	}
	var auditSink security.AuditSink
	if auditRepo != nil {
		auditSink = auditRepo
	}
	audit := security.NewAuditLogger(log, auditSink)

	// The analysis cache is always in-memory and bounded; transcriptions go to
	// redis when available so cache hits survive restarts.
	analysisCache := cache.NewMemory(cfg.AnalysisCacheSize)
	var transcriptionCache cache.Cache = cache.NewMemory(0)
	if rdb != nil {
		transcriptionCache = cache.NewRedis(rdb, "notewell")
	}

	llmProvider := buildLLMProvider(ctx, cfg, log)
	defer llmProvider.Close()

	if o, ok := llmProvider.(*llm.Ollama); ok && cfg.ExpectedRPM > 0 {
		o.TuneForWorkload(cfg.ExpectedRPM)
	}

	sessionRepo := postgres.NewSessionRepo(db)

	analysisSvc := services.NewAnalysisService(llmProvider, analysisCache, audit, log, cfg.FallbackEnabled)
	sessionSvc := services.NewSessionService(sessionRepo, audit, log)
	audioSvc := services.NewAudioService(transcriptionCache, buildSTTFactory(cfg), buildStorage(ctx, cfg, log),
		audit, log, cfg.TranscriptionCacheTTL, cfg.STTLanguage, cfg.MaxUploadBytes())

	if cfg.WorkerCount > 0 && rdb != nil {
		pool := &workers.AudioWorkerPool{
			Redis:      rdb,
			Audio:      audioSvc,
			Analysis:   analysisSvc,
			Sessions:   sessionSvc,
			NumWorkers: cfg.WorkerCount,
			Logger:     log,
			Stream:     cfg.AudioStream,
			UseLLM:     cfg.LLMEnabled,
		}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("worker pool init failed")
		}
		log.WithField("workers", cfg.WorkerCount).Info("audio worker pool started")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	routes.RegisterRoutes(r, routes.Deps{
		Session:     handlers.NewSessionHandler(analysisSvc, sessionSvc, cfg.LLMEnabled),
		Audio:       handlers.NewAudioHandler(audioSvc, analysisSvc, sessionSvc, cfg.LLMEnabled, cfg.MaxUploadBytes()),
		Health:      handlers.NewHealthHandler(db, rdb, llmProvider, analysisCache),
		Audit:       handlers.NewAuditHandler(auditRepo),
		JWTSecret:   cfg.JWTSecret,
		AuditLogger: audit,
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	log.WithField("addr", addr).Info("server listening")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func buildLLMProvider(ctx context.Context, cfg config.Settings, log *logrus.Logger) llm.Provider {
	if cfg.LLMProvider == "vertex" && cfg.VertexProject != "" {
		p, err := llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.WithError(err).Warn("vertex init failed, falling back to ollama")
		} else {
			log.Info("using vertex model provider")
			return p
		}
	}
	return llm.NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaTimeout, log)
}

func buildSTTFactory(cfg config.Settings) services.ProviderFactory {
	if cfg.STTProvider == "google" {
		return func(ctx context.Context) (stt.Provider, error) {
			return stt.NewGoogleSpeech(ctx)
		}
	}
	return func(ctx context.Context) (stt.Provider, error) {
		return stt.NewWhisperServer(cfg.WhisperServerURL, 2*time.Minute), nil
	}
}

func buildStorage(ctx context.Context, cfg config.Settings, log *logrus.Logger) storage.Uploader {
	if cfg.StorageBackend == "gcs" && cfg.GCSBucket != "" {
		u, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Warn("gcs init failed, storing audio locally")
		} else {
			return u
		}
	}

	u, err := storage.NewLocalDir(cfg.AudioDir)
	if err != nil {
		log.WithError(err).Warn("local audio dir unavailable, audio archival disabled")
		return nil
	}
	return u
}
