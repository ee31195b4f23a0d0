package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notewell/notewell/internal/utils"
)

func TestValidateTranscript(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		wantErr    bool
	}{
		{"valid", "Client discussed anxiety symptoms at length today.", false},
		{"empty", "", true},
		{"too short", "hi", true},
		{"whitespace only padding", "        a        ", true},
		{"too long", strings.Repeat("a", 50001), true},
		{"script tag", "hello <script>alert(1)</script> world", true},
		{"javascript url", "see javascript:alert(1) for details", true},
		{"event handler", `<img onerror=alert(1)>` + " plus session content", true},
		{"iframe", `<iframe src="x"> and more text here`, true},
		{"max length boundary", strings.Repeat("a", 50000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTranscript(tt.transcript)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateAudioUpload(t *testing.T) {
	const maxBytes = 1 << 20

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"wav", "session.wav", 1000, false},
		{"mp3 upper case", "SESSION.MP3", 1000, false},
		{"webm", "clip.webm", 1000, false},
		{"no filename", "", 1000, true},
		{"empty file", "session.wav", 0, true},
		{"too large", "session.wav", maxBytes + 1, true},
		{"unsupported extension", "session.exe", 1000, true},
		{"no extension", "session", 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAudioUpload(tt.filename, tt.size, maxBytes)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
			} else {
				require.NoError(t, err)
			}
		})
	}
}
