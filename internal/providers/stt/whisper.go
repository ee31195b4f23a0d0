package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// transcribeConfidence is reported for successful whisper transcriptions; the
// server does not return a per-utterance score.
const transcribeConfidence = 0.85

// clinicalPrompt biases decoding toward medical and psychological terminology.
const clinicalPrompt = "This is a behavioral health therapy session transcript. Please transcribe accurately including medical and psychological terminology."

// WhisperServer transcribes through a local whisper.cpp server instance.
type WhisperServer struct {
	baseURL string
	client  *http.Client
}

func NewWhisperServer(baseURL string, timeout time.Duration) *WhisperServer {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &WhisperServer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *WhisperServer) Close() error {
	w.client.CloseIdleConnections()
	return nil
}

func (w *WhisperServer) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	if language == "" {
		language = "en"
	}
	// whisper wants a bare language code, not a locale
	if i := strings.Index(language, "-"); i > 0 {
		language = language[:i]
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", 0, err
	}
	if _, err := part.Write(audio); err != nil {
		return "", 0, err
	}
	_ = mw.WriteField("language", language)
	_ = mw.WriteField("temperature", "0.0")
	_ = mw.WriteField("response_format", "json")
	_ = mw.WriteField("prompt", clinicalPrompt)
	if err := mw.Close(); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", &buf)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("whisper server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, err
	}

	return strings.TrimSpace(out.Text), transcribeConfidence, nil
}
