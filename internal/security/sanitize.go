package security

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitivePatterns match identifiers that must never reach logs or the audit
// collection.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`),                           // ssn
	regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),                     // phone
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
	regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),        // card number
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),                 // date of birth
}

var sensitiveKeys = []string{
	"password", "token", "secret", "key", "ssn", "social_security",
	"credit_card", "phone", "email", "address", "dob", "date_of_birth",
}

// Sanitize removes sensitive identifiers from free text.
func Sanitize(text string) string {
	if text == "" {
		return text
	}
	for _, p := range sensitivePatterns {
		text = p.ReplaceAllString(text, redacted)
	}
	return text
}

// SanitizeFields redacts sensitive keys and scrubs string values, recursively.
func SanitizeFields(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = redacted
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = Sanitize(val)
		case map[string]any:
			out[k] = SanitizeFields(val)
		default:
			out[k] = val
		}
	}
	return out
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
