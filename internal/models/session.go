package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is one persisted analysis of a therapy session transcript.
// ContentHash is the text-lane fingerprint used for duplicate detection.
type Session struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`

	Summary       string `gorm:"column:summary;type:text" json:"summary"`
	Diagnosis     string `gorm:"column:diagnosis;type:text" json:"diagnosis"`
	ContentHash   string `gorm:"column:content_hash;type:varchar(64);index" json:"content_hash"`
	AudioFilePath string `gorm:"column:audio_file_path;type:text" json:"audio_file_path,omitempty"`
	Transcript    string `gorm:"column:transcript;type:text" json:"transcript"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
}

func (Session) TableName() string { return "sessions" }
