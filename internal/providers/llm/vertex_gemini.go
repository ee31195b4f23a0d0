package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"

	"github.com/notewell/notewell/internal/utils"
)

// VertexGemini is the managed-model alternative to the local endpoint,
// selected with LLM_PROVIDER=vertex. It shares the JSON repair path with the
// Ollama client; sampling presets and workload tuning stay Ollama-specific.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// CheckConnection reports whether the client is usable. Vertex has no cheap
// listing probe; failures surface on the analysis call itself.
func (v *VertexGemini) CheckConnection(context.Context) bool {
	return v.client != nil
}

func (v *VertexGemini) Analyze(ctx context.Context, transcript string) (map[string]any, error) {
	const op = "llm.VertexGemini.Analyze"

	prompt := analysisSystemPrompt + "\n\n" + userPrompt(transcript)
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return nil, utils.E(utils.CodeExternal, op, "generate content failed", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}

	return parseAnalysisText(b.String()), nil
}
