package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigTypeFor(t *testing.T) {
	require.Equal(t, ConfigQuick, configTypeFor(0))
	require.Equal(t, ConfigQuick, configTypeFor(499))
	require.Equal(t, ConfigStandard, configTypeFor(500))
	require.Equal(t, ConfigStandard, configTypeFor(2000))
	require.Equal(t, ConfigDetailed, configTypeFor(2001))
}

func TestConfigSetGetFallsBackToStandard(t *testing.T) {
	set := defaultConfigs("mistral:7b")
	require.Equal(t, set.Get(ConfigStandard), set.Get("no_such_config"))
}

func TestBuildChatRequestCustomOverrides(t *testing.T) {
	cfg := defaultConfigs("mistral:7b").Get(ConfigStandard)

	req := buildChatRequest(cfg, []chatMessage{{Role: "user", Content: "hi"}}, map[string]any{
		"temperature": 0.4,
		"num_ctx":     2048,
	})

	require.Equal(t, "mistral:7b", req.Model)
	require.False(t, req.Stream)
	require.Equal(t, "json", req.Format)
	require.Equal(t, 0.4, req.Options["temperature"])
	require.Equal(t, 2048, req.Options["num_ctx"])
	require.Equal(t, cfg.TopP, req.Options["top_p"])
}

func TestBuildChatRequestOmitsUnsetNumPredict(t *testing.T) {
	cfg := ModelConfig{Name: "m", ContextLength: 4096}
	req := buildChatRequest(cfg, nil, nil)
	_, ok := req.Options["num_predict"]
	require.False(t, ok)
}

func TestScaledOptionsTiers(t *testing.T) {
	short := scaledOptions("short transcript")
	require.Equal(t, 1024, short["num_predict"])
	require.Equal(t, 2048, short["num_ctx"])

	medium := scaledOptions(strings.Repeat("word ", 1000))
	require.Equal(t, 1536, medium["num_predict"])
	require.Equal(t, 4096, medium["num_ctx"])

	long := scaledOptions(strings.Repeat("w ", 2500))
	require.Equal(t, 2048, long["num_predict"])
	require.Equal(t, 8192, long["num_ctx"])
}

func TestScaledOptionsContextCap(t *testing.T) {
	huge := strings.Repeat("a long transcript segment ", 2000) // well past 10000 chars
	opts := scaledOptions(huge)

	require.Equal(t, 16384, opts["num_ctx"])
	require.Equal(t, 3072, opts["num_predict"])
}

func TestUserPromptTruncatesLongTranscripts(t *testing.T) {
	transcript := strings.Repeat("x", 9000)
	prompt := userPrompt(transcript)

	require.Less(t, len(prompt), len(transcript))
	require.Contains(t, prompt, "middle section truncated")
}
