package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/notewell/notewell/internal/api/handlers"
	"github.com/notewell/notewell/internal/api/middleware"
	"github.com/notewell/notewell/internal/security"
)

type Deps struct {
	Session *handlers.SessionHandler
	Audio   *handlers.AudioHandler
	Health  *handlers.HealthHandler
	Audit   *handlers.AuditHandler

	JWTSecret   string
	AuditLogger *security.AuditLogger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/api/health", d.Health.Health)

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(d.JWTSecret, d.AuditLogger))

	api.POST("/analyze", d.Session.Analyze)
	api.POST("/audio/upload", d.Audio.Upload)

	api.GET("/sessions", d.Session.List)
	api.GET("/sessions/:session_id", d.Session.Get)
	api.POST("/sessions/:session_id/reanalyze", d.Session.Reanalyze)
	api.DELETE("/sessions/:session_id", d.Session.Delete)

	api.GET("/audit", d.Audit.ListRecent)
}
