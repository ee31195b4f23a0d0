package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/internal/utils"
)

const (
	sessionTTL       = 30 * time.Minute
	connCheckTTL     = 30 * time.Second
	connCheckTimeout = 5 * time.Second
)

// Ollama talks to a local Ollama endpoint using the chat API with forced JSON
// output. One pooled HTTP session is reused across requests and recycled when
// idle past its TTL; availability checks are cached for a short window.
type Ollama struct {
	baseURL string
	model   string
	timeout time.Duration
	log     *logrus.Logger

	configs *ConfigSet
	stats   *Stats

	sessionMu sync.Mutex
	client    *http.Client
	sessionAt time.Time

	connMu        sync.Mutex
	connStatus    bool
	connKnown     bool
	connCheckedAt time.Time
}

func NewOllama(baseURL, model string, timeout time.Duration, log *logrus.Logger) *Ollama {
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		log:     log,
		configs: defaultConfigs(model),
		stats:   &Stats{},
	}
}

// session returns the pooled HTTP client, rebuilding it when stale. Only one
// session build happens at a time.
func (o *Ollama) session() *http.Client {
	o.sessionMu.Lock()
	defer o.sessionMu.Unlock()

	now := time.Now()
	if o.client == nil || now.Sub(o.sessionAt) > sessionTTL {
		if o.client != nil {
			o.client.CloseIdleConnections()
		}
		o.client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		}
		o.sessionAt = now
		o.log.WithField("base_url", o.baseURL).Debug("built new model endpoint session")
	}
	return o.client
}

// CheckConnection probes the model-listing endpoint. Results are cached for
// connCheckTTL so health checks and back-to-back requests do not hammer the
// endpoint.
func (o *Ollama) CheckConnection(ctx context.Context) bool {
	o.connMu.Lock()
	defer o.connMu.Unlock()

	now := time.Now()
	if o.connKnown && now.Sub(o.connCheckedAt) < connCheckTTL {
		return o.connStatus
	}

	ctx, cancel := context.WithTimeout(ctx, connCheckTimeout)
	defer cancel()

	status := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err == nil {
		resp, err := o.session().Do(req)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			status = resp.StatusCode == http.StatusOK
		} else {
			o.log.WithError(err).Error("cannot reach model endpoint")
		}
	}

	o.connStatus = status
	o.connKnown = true
	o.connCheckedAt = now
	o.stats.Record(status, 100*time.Millisecond)
	return status
}

// Analyze runs one clinical analysis request. Transport failures and non-200
// responses surface as EXTERNAL_SERVICE errors; malformed model text is
// repaired or substituted internally and never fails.
func (o *Ollama) Analyze(ctx context.Context, transcript string) (map[string]any, error) {
	const op = "llm.Ollama.Analyze"
	start := time.Now()

	if !o.CheckConnection(ctx) {
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeExternal, op, "model endpoint is not available", nil)
	}

	configType := configTypeFor(len(splitWords(transcript)))
	cfg := o.configs.Get(configType)

	system := strings.TrimSpace(cfg.SystemPrompt + "\n\n" + analysisSystemPrompt)
	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: userPrompt(transcript)},
	}

	payload := buildChatRequest(cfg, messages, scaledOptions(transcript))
	body, err := json.Marshal(payload)
	if err != nil {
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeInternal, op, "failed to encode chat payload", err)
	}

	o.log.WithFields(logrus.Fields{
		"config_type": configType,
		"model":       cfg.Name,
	}).Info("starting model analysis")

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeExternal, op, "failed to build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session().Do(req)
	if err != nil {
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeExternal, op, "chat request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeExternal, op,
			fmt.Sprintf("model endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		o.stats.Record(false, time.Since(start))
		return nil, utils.E(utils.CodeExternal, op, "failed to decode chat response", err)
	}

	raw := parseAnalysisText(out.Message.Content)
	o.stats.Record(true, time.Since(start))
	return raw, nil
}

// Stats returns a snapshot of rolling request counters.
func (o *Ollama) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// TuneForWorkload adjusts the standard config for an expected request rate:
// high load trades quality for throughput, low load does the reverse.
func (o *Ollama) TuneForWorkload(requestsPerMinute int) {
	switch {
	case requestsPerMinute > 30:
		o.configs.update(ConfigStandard, func(c *ModelConfig) {
			c.Temperature = 0.2
			c.NumPredict = 1024
		})
		o.log.Info("tuned model config for high-throughput workload")
	case requestsPerMinute > 10:
		o.configs.update(ConfigStandard, func(c *ModelConfig) {
			c.Temperature = 0.1
			c.NumPredict = 0
		})
		o.log.Info("tuned model config for balanced workload")
	default:
		o.configs.update(ConfigStandard, func(c *ModelConfig) {
			c.Temperature = 0.05
			c.ContextLength = 16384
		})
		o.log.Info("tuned model config for high-quality analysis")
	}
}

func (o *Ollama) Close() error {
	o.sessionMu.Lock()
	defer o.sessionMu.Unlock()
	if o.client != nil {
		o.client.CloseIdleConnections()
		o.client = nil
	}
	return nil
}
