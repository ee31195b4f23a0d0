package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/notewell/notewell/internal/utils"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestOllamaAnalyze(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/chat":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{
					"role":    "assistant",
					"content": `{"summary": "Client is coping well.", "diagnosis": "None"}`,
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "mistral:7b", 30*time.Second, testLogger())
	defer o.Close()

	raw, err := o.Analyze(context.Background(), "Client discussed progress with anxiety management today.")
	require.NoError(t, err)
	require.Equal(t, "Client is coping well.", raw["summary"])

	require.Equal(t, "mistral:7b", gotReq.Model)
	require.Equal(t, "json", gotReq.Format)
	require.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	require.Equal(t, "system", gotReq.Messages[0].Role)

	snap := o.Stats()
	require.GreaterOrEqual(t, snap.SuccessfulRequests, int64(1))
}

func TestOllamaAnalyzeRepairsMalformedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "this is not json at all"},
		})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "mistral:7b", 30*time.Second, testLogger())
	defer o.Close()

	raw, err := o.Analyze(context.Background(), "Client discussed progress with anxiety management today.")
	require.NoError(t, err, "unparseable model text is substituted, not surfaced")
	require.Contains(t, raw["summary"], "technical difficulties")
}

func TestOllamaAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "mistral:7b", 30*time.Second, testLogger())
	defer o.Close()

	_, err := o.Analyze(context.Background(), "Client discussed progress with anxiety management today.")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeExternal))
}

func TestOllamaAnalyzeEndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "mistral:7b", 30*time.Second, testLogger())
	defer o.Close()

	_, err := o.Analyze(context.Background(), "Client discussed progress with anxiety management today.")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeExternal))
}

func TestOllamaConnectionCheckIsCached(t *testing.T) {
	var tagHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			tagHits++
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "mistral:7b", 30*time.Second, testLogger())
	defer o.Close()

	ctx := context.Background()
	require.True(t, o.CheckConnection(ctx))
	require.True(t, o.CheckConnection(ctx))
	require.True(t, o.CheckConnection(ctx))
	require.Equal(t, 1, tagHits)
}
