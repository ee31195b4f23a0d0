package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAnalysisTextDirectJSON(t *testing.T) {
	out := parseAnalysisText(`{"summary": "Short session.", "diagnosis": "None"}`)
	require.Equal(t, "Short session.", out["summary"])
	require.Equal(t, "None", out["diagnosis"])
}

func TestParseAnalysisTextProseWrapped(t *testing.T) {
	text := "Here is the analysis you asked for:\n" +
		`{"summary": "Client improving.", "diagnosis": "GAD"}` +
		"\nLet me know if you need anything else."

	out := parseAnalysisText(text)
	require.Equal(t, "Client improving.", out["summary"])
	require.Equal(t, "GAD", out["diagnosis"])
}

func TestParseAnalysisTextSalvagesBareMembers(t *testing.T) {
	text := "\"summary\": \"Client stable\",\n\"diagnosis\": \"None noted\"\n"

	out := parseAnalysisText(text)
	require.Equal(t, "Client stable", out["summary"])
	require.Equal(t, "None noted", out["diagnosis"])
}

func TestParseAnalysisTextFallback(t *testing.T) {
	for _, text := range []string{"", "   ", "complete nonsense with no structure"} {
		out := parseAnalysisText(text)
		require.Contains(t, out["summary"], "technical difficulties")
		require.NotEmpty(t, out["key_points"])
		require.NotEmpty(t, out["treatment_plan"])
	}
}

func TestExtractObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, extractObject(`prefix {"a":1} suffix`))
	require.Equal(t, "", extractObject("no braces here"))
	require.Equal(t, "", extractObject("} reversed {"))
}
