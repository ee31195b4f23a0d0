package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	base := Text("Patient reports feeling anxious.")

	require.Len(t, base, 64)
	require.Equal(t, base, Text("patient reports feeling anxious."))
	require.Equal(t, base, Text("  Patient reports feeling anxious.  \n"))
	require.NotEqual(t, base, Text("Patient reports feeling calm."))
}

func TestTextInternalWhitespaceMatters(t *testing.T) {
	require.NotEqual(t, Text("hello world"), Text("hello  world"))
}

func TestAudio(t *testing.T) {
	a := Audio([]byte{0x00, 0x01, 0x02})
	b := Audio([]byte{0x00, 0x01, 0x03})

	require.Len(t, a, 64)
	require.NotEqual(t, a, b)
	require.Equal(t, a, Audio([]byte{0x00, 0x01, 0x02}))
}

func TestLanesAreDistinct(t *testing.T) {
	// Audio hashes raw bytes, Text normalizes first, so the same payload
	// produces different fingerprints when it contains upper case.
	payload := "Hello World"
	require.NotEqual(t, Text(payload), Audio([]byte(payload)))
}
