package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notewell/notewell/internal/cache"
	"github.com/notewell/notewell/internal/providers/stt"
	"github.com/notewell/notewell/internal/security"
	"github.com/notewell/notewell/internal/storage"
	"github.com/notewell/notewell/internal/utils"
)

type fakeSTT struct {
	mu         sync.Mutex
	calls      int
	transcript string
	confidence float64
	err        error
}

func (f *fakeSTT) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", 0, f.err
	}
	return f.transcript, f.confidence, nil
}

func (f *fakeSTT) Close() error { return nil }

type fakeUploader struct {
	path string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func newTestAudioService(provider *fakeSTT, factoryCalls *int32, store storage.Uploader) AudioService {
	log := quietLogger()
	audit := security.NewAuditLogger(log, nil)

	factory := func(ctx context.Context) (stt.Provider, error) {
		atomic.AddInt32(factoryCalls, 1)
		return provider, nil
	}
	return NewAudioService(cache.NewMemory(10), factory, store, audit, log, time.Minute, "en", 1<<20)
}

func TestTranscribeCachesByContent(t *testing.T) {
	provider := &fakeSTT{transcript: "hello from the session", confidence: 0.92}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, nil)
	ctx := context.Background()

	audio := []byte("fake-wav-bytes")

	first, err := svc.Transcribe(ctx, audio, "session.wav")
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, "hello from the session", first.Transcript)
	require.Equal(t, 0.92, first.Confidence)

	second, err := svc.Transcribe(ctx, audio, "renamed.wav")
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Transcript, second.Transcript)
	require.Equal(t, 0.85, second.Confidence)
	require.Equal(t, 1, provider.calls)
}

func TestTranscribeDifferentAudioMisses(t *testing.T) {
	provider := &fakeSTT{transcript: "text", confidence: 0.9}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, nil)
	ctx := context.Background()

	_, err := svc.Transcribe(ctx, []byte("recording one"), "a.wav")
	require.NoError(t, err)
	_, err = svc.Transcribe(ctx, []byte("recording two"), "b.wav")
	require.NoError(t, err)

	require.Equal(t, 2, provider.calls)
}

func TestTranscribeLoadsProviderOnce(t *testing.T) {
	provider := &fakeSTT{transcript: "text", confidence: 0.9}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = svc.Transcribe(ctx, []byte{byte(n)}, "clip.wav")
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&factoryCalls))
}

func TestTranscribeValidationSkipsProvider(t *testing.T) {
	provider := &fakeSTT{transcript: "text", confidence: 0.9}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, nil)
	ctx := context.Background()

	_, err := svc.Transcribe(ctx, []byte("data"), "malware.exe")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Transcribe(ctx, nil, "empty.wav")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	require.Equal(t, int32(0), factoryCalls)
}

func TestTranscribeProviderLoadFailure(t *testing.T) {
	log := quietLogger()
	audit := security.NewAuditLogger(log, nil)
	factory := func(ctx context.Context) (stt.Provider, error) {
		return nil, errors.New("model weights missing")
	}
	svc := NewAudioService(cache.NewMemory(10), factory, nil, audit, log, time.Minute, "en", 1<<20)

	_, err := svc.Transcribe(context.Background(), []byte("data"), "a.wav")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestTranscribeFailureNotCached(t *testing.T) {
	provider := &fakeSTT{err: errors.New("decode error")}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, nil)
	ctx := context.Background()

	audio := []byte("same bytes")

	_, err := svc.Transcribe(ctx, audio, "a.wav")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeUnprocessable))

	_, err = svc.Transcribe(ctx, audio, "a.wav")
	require.Error(t, err)
	require.Equal(t, 2, provider.calls, "failures must not populate the cache")
}

func TestTranscribeArchivesAudio(t *testing.T) {
	provider := &fakeSTT{transcript: "text", confidence: 0.9}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, &fakeUploader{path: "gs://bucket/obj.wav"})

	got, err := svc.Transcribe(context.Background(), []byte("data"), "a.wav")
	require.NoError(t, err)
	require.Equal(t, "gs://bucket/obj.wav", got.AudioPath)
}

func TestTranscribeArchivalFailureIsNonFatal(t *testing.T) {
	provider := &fakeSTT{transcript: "text", confidence: 0.9}
	var factoryCalls int32
	svc := newTestAudioService(provider, &factoryCalls, &fakeUploader{err: errors.New("bucket gone")})

	got, err := svc.Transcribe(context.Background(), []byte("data"), "a.wav")
	require.NoError(t, err)
	require.Empty(t, got.AudioPath)
	require.Equal(t, "text", got.Transcript)
}
