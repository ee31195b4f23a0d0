// Package security covers content validation, sensitive-data sanitization, and
// the compliance audit trail.
package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/notewell/notewell/internal/utils"
)

const (
	minTranscriptLen = 10
	maxTranscriptLen = 50000
)

// harmfulPatterns reject transcripts carrying markup injection payloads.
var harmfulPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
}

var allowedAudioExtensions = []string{".wav", ".mp3", ".m4a", ".flac", ".ogg", ".webm"}

// ValidateTranscript checks transcript content before any analysis work.
func ValidateTranscript(transcript string) error {
	const op = "security.ValidateTranscript"

	if transcript == "" {
		return utils.E(utils.CodeInvalidArgument, op, "transcript cannot be empty", nil)
	}
	for _, p := range harmfulPatterns {
		if p.MatchString(transcript) {
			return utils.E(utils.CodeInvalidArgument, op, "transcript contains potentially harmful content", nil)
		}
	}
	if len(transcript) > maxTranscriptLen {
		return utils.E(utils.CodeInvalidArgument, op, "transcript exceeds maximum length", nil)
	}
	if len(strings.TrimSpace(transcript)) < minTranscriptLen {
		return utils.E(utils.CodeInvalidArgument, op, "transcript is too short for meaningful analysis", nil)
	}
	return nil
}

// ValidateAudioUpload checks the upload before the audio bytes are processed.
func ValidateAudioUpload(filename string, size, maxBytes int64) error {
	const op = "security.ValidateAudioUpload"

	if filename == "" {
		return utils.E(utils.CodeInvalidArgument, op, "audio file has no filename", nil)
	}
	if size <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil)
	}
	if maxBytes > 0 && size > maxBytes {
		return utils.E(utils.CodeInvalidArgument, op, "audio file exceeds maximum size", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedAudioExtensions {
		if ext == allowed {
			return nil
		}
	}
	return utils.E(utils.CodeInvalidArgument, op,
		fmt.Sprintf("unsupported audio format, allowed: %s", strings.Join(allowedAudioExtensions, ", ")), nil)
}
