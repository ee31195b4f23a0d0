package storage

import (
	"context"
	"io"
)

// Uploader archives uploaded audio so the original recording stays available
// for clinical review after transcription.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
