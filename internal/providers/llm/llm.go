package llm

import "context"

// Provider produces loosely structured analysis output for a transcript. The
// returned map is the model's parsed JSON before normalization; implementations
// must not fail on malformed model text (they substitute a fallback record) and
// signal only transport/endpoint errors.
type Provider interface {
	Analyze(ctx context.Context, transcript string) (map[string]any, error)
	CheckConnection(ctx context.Context) bool
	Close() error
}
