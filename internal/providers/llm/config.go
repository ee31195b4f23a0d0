package llm

import (
	"sync"
)

// ModelConfig is a named bundle of generation parameters. A config is selected
// per request by transcript word count and merged with length-scaled options.
type ModelConfig struct {
	Name          string
	ContextLength int
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
	NumPredict    int // <= 0 means unset
	StopSequences []string
	SystemPrompt  string
}

// Config type keys. Selection thresholds: <500 words quick, >2000 detailed,
// otherwise standard.
const (
	ConfigQuick    = "quick_analysis"
	ConfigStandard = "behavioral_health"
	ConfigDetailed = "detailed_analysis"
)

// ConfigSet holds the named configurations for one client. TuneForWorkload
// mutates the set process-wide, so reads and writes go through the mutex.
type ConfigSet struct {
	mu      sync.RWMutex
	configs map[string]ModelConfig
}

func defaultConfigs(model string) *ConfigSet {
	return &ConfigSet{configs: map[string]ModelConfig{
		ConfigStandard: {
			Name:          model,
			ContextLength: 8192,
			Temperature:   0.1,
			TopP:          0.9,
			TopK:          40,
			RepeatPenalty: 1.1,
			SystemPrompt:  standardSystemPrompt,
			StopSequences: []string{"Human:", "Assistant:", "User:", "AI:"},
		},
		ConfigQuick: {
			Name:          model,
			ContextLength: 4096,
			Temperature:   0.2,
			TopP:          0.8,
			TopK:          40,
			RepeatPenalty: 1.1,
			NumPredict:    512,
			SystemPrompt:  quickSystemPrompt,
		},
		ConfigDetailed: {
			Name:          model,
			ContextLength: 16384,
			Temperature:   0.05,
			TopP:          0.95,
			TopK:          40,
			RepeatPenalty: 1.05,
			SystemPrompt:  detailedSystemPrompt,
		},
	}}
}

// Get returns the named config, falling back to the standard one.
func (s *ConfigSet) Get(configType string) ModelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.configs[configType]; ok {
		return cfg
	}
	return s.configs[ConfigStandard]
}

func (s *ConfigSet) update(configType string, fn func(*ModelConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.configs[configType]
	fn(&cfg)
	s.configs[configType] = cfg
}

// configTypeFor picks a named config by transcript word count.
func configTypeFor(wordCount int) string {
	switch {
	case wordCount < 500:
		return ConfigQuick
	case wordCount > 2000:
		return ConfigDetailed
	default:
		return ConfigStandard
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format"`
	Options  map[string]any `json:"options"`
}

type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

// buildChatRequest assembles the wire payload for one named config. Custom
// options override the config's base sampling parameters.
func buildChatRequest(cfg ModelConfig, messages []chatMessage, custom map[string]any) chatRequest {
	options := map[string]any{
		"temperature":    cfg.Temperature,
		"top_p":          cfg.TopP,
		"top_k":          cfg.TopK,
		"repeat_penalty": cfg.RepeatPenalty,
		"num_ctx":        cfg.ContextLength,
	}
	if cfg.NumPredict > 0 {
		options["num_predict"] = cfg.NumPredict
	}
	if len(cfg.StopSequences) > 0 {
		options["stop"] = cfg.StopSequences
	}
	for k, v := range custom {
		options[k] = v
	}

	return chatRequest{
		Model:    cfg.Name,
		Messages: messages,
		Stream:   false,
		Format:   "json",
		Options:  options,
	}
}

// scaledOptions derives sampling overrides from transcript size: shorter
// transcripts run cooler and smaller, longer ones get more context and predict
// budget, capped at 16384 context tokens.
func scaledOptions(transcript string) map[string]any {
	wordCount := len(splitWords(transcript))

	options := map[string]any{
		"temperature":    0.4,
		"top_p":          0.85,
		"top_k":          30,
		"repeat_penalty": 1.1,
		"stop":           []string{"Human:", "Patient:", "Therapist:", "Dr.", "Client:"},
	}

	switch {
	case wordCount < 500:
		options["num_predict"] = 1024
		options["num_ctx"] = 2048
		options["temperature"] = 0.3
	case wordCount < 2000:
		options["num_predict"] = 1536
		options["num_ctx"] = 4096
		options["temperature"] = 0.4
	default:
		options["num_predict"] = 2048
		options["num_ctx"] = 8192
		options["temperature"] = 0.45
	}

	if len(transcript) > 10000 {
		ctx := len(transcript) + 2000
		if ctx > 16384 {
			ctx = 16384
		}
		options["num_ctx"] = ctx
		options["num_predict"] = 3072
	}

	return options
}
