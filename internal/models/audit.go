package models

import "time"

// AuditEvent is one entry in the compliance audit trail. Events are always
// written to the structured log; when Mongo is configured they are also
// appended to the audit collection.
type AuditEvent struct {
	EventType  string         `bson:"event_type" json:"event_type"`
	Operation  string         `bson:"operation,omitempty" json:"operation,omitempty"`
	Action     string         `bson:"action,omitempty" json:"action,omitempty"`
	DataType   string         `bson:"data_type,omitempty" json:"data_type,omitempty"`
	SessionID  string         `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Success    bool           `bson:"success" json:"success"`
	DurationMS int64          `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	Error      string         `bson:"error,omitempty" json:"error,omitempty"`
	IPAddress  string         `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Extra      map[string]any `bson:"extra,omitempty" json:"extra,omitempty"`
	Timestamp  time.Time      `bson:"timestamp" json:"timestamp"`
}
