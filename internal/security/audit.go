package security

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/internal/models"
)

// AuditSink persists audit events beyond the structured log. Implemented by
// the Mongo audit repository; nil disables persistence.
type AuditSink interface {
	Insert(ctx context.Context, ev *models.AuditEvent) error
}

// AuditLogger writes the compliance audit trail. Every event goes to the
// structured log; persistence to the sink is best effort and never fails the
// calling operation.
type AuditLogger struct {
	log  *logrus.Logger
	sink AuditSink
}

func NewAuditLogger(log *logrus.Logger, sink AuditSink) *AuditLogger {
	return &AuditLogger{log: log, sink: sink}
}

// LogDataProcessing records one analysis or transcription operation.
func (a *AuditLogger) LogDataProcessing(ctx context.Context, operation, dataType string, durationMS int64, success bool, errMsg string, extra map[string]any) {
	a.emit(ctx, &models.AuditEvent{
		EventType:  "data_processing",
		Operation:  operation,
		DataType:   dataType,
		DurationMS: durationMS,
		Success:    success,
		Error:      Sanitize(errMsg),
		Extra:      SanitizeFields(extra),
		Timestamp:  time.Now().UTC(),
	})
}

// LogSessionAccess records access to a stored session record.
func (a *AuditLogger) LogSessionAccess(ctx context.Context, sessionID, action, ip string) {
	a.emit(ctx, &models.AuditEvent{
		EventType: "session_access",
		SessionID: sessionID,
		Action:    action,
		IPAddress: ip,
		Success:   true,
		Timestamp: time.Now().UTC(),
	})
}

// LogSecurityEvent records rejected input and other security-relevant events.
func (a *AuditLogger) LogSecurityEvent(ctx context.Context, action, description, ip string) {
	a.emit(ctx, &models.AuditEvent{
		EventType: "security_event",
		Action:    action,
		Error:     Sanitize(description),
		IPAddress: ip,
		Success:   false,
		Timestamp: time.Now().UTC(),
	})
}

func (a *AuditLogger) emit(ctx context.Context, ev *models.AuditEvent) {
	entry := a.log.WithFields(logrus.Fields{
		"audit":      true,
		"event_type": ev.EventType,
		"success":    ev.Success,
	})
	if ev.Operation != "" {
		entry = entry.WithField("operation", ev.Operation)
	}
	if ev.Action != "" {
		entry = entry.WithField("action", ev.Action)
	}
	if ev.SessionID != "" {
		entry = entry.WithField("session_id", ev.SessionID)
	}
	if ev.DurationMS > 0 {
		entry = entry.WithField("duration_ms", ev.DurationMS)
	}
	if ev.Error != "" {
		entry = entry.WithField("error", ev.Error)
	}
	entry.Info("audit")

	if a.sink != nil {
		if err := a.sink.Insert(ctx, ev); err != nil {
			a.log.WithError(err).Warn("failed to persist audit event")
		}
	}
}
