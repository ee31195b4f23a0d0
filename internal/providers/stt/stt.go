package stt

import "context"

// Provider converts audio bytes into transcript text. Implementations are
// loaded lazily by the audio service; construction may be expensive.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
