package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/notewell/notewell/internal/services"
)

// AudioWorkerPool drains queued audio jobs from a redis stream and runs them
// through the full pipeline: transcription, clinical analysis, session save.
// Progress and results are published on per-job channels so the submitter can
// follow along.
type AudioWorkerPool struct {
	Redis    *redis.Client
	Audio    services.AudioService
	Analysis services.AnalysisService
	Sessions services.SessionService

	NumWorkers int
	Logger     *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// UseLLM mirrors the server-wide model toggle.
	UseLLM bool
}

func (p *AudioWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Audio == nil || p.Analysis == nil || p.Sessions == nil {
		return errors.New("AudioWorkerPool missing dependency: Redis/Audio/Analysis/Sessions must be set")
	}
	if p.Stream == "" {
		p.Stream = "audio:jobs"
	}
	if p.Group == "" {
		p.Group = "audio-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *AudioWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *AudioWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	jobID := getStr("job_id")
	if jobID == "" {
		return
	}
	filename := getStr("filename")
	if filename == "" {
		filename = "upload.wav"
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"job_id":   jobID,
	})

	resultCh := "job:" + jobID + ":result"
	statusCh := "job:" + jobID + ":status"

	// Fetch audio
	var audioBytes []byte
	if b64 := getStr("audio_base64"); b64 != "" {
		raw := b64
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:] // strip data:...;base64,
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			log.WithError(err).Warn("base64 decode failed")
			p.publishStatus(ctx, statusCh, "failed", "invalid audio_base64")
			return
		}
		audioBytes = decoded
	} else if url := getStr("audio_url"); url != "" {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.WithError(err).Warn("audio_url fetch failed")
			p.publishStatus(ctx, statusCh, "failed", "failed to fetch audio_url")
			return
		}
		defer resp.Body.Close()

		const maxBytes = 50 << 20
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
		if len(body) == 0 {
			p.publishStatus(ctx, statusCh, "failed", "empty audio")
			return
		}
		audioBytes = body
	} else {
		return
	}

	p.publishStatus(ctx, statusCh, "processing", "transcribing")

	result, err := p.Audio.Transcribe(ctx, audioBytes, filename)
	if err != nil {
		log.WithError(err).Error("transcription failed")
		p.publishStatus(ctx, statusCh, "failed", "transcription failed")
		return
	}

	p.publishStatus(ctx, statusCh, "processing", "analyzing")

	analysis, err := p.Analysis.Analyze(ctx, result.Transcript, p.UseLLM, false)
	if err != nil {
		log.WithError(err).Error("analysis failed")
		p.publishStatus(ctx, statusCh, "failed", "analysis failed")
		return
	}

	sess, err := p.Sessions.Create(ctx, result.Transcript, analysis, result.AudioPath,
		map[string]any{"source": "worker", "job_id": jobID, "filename": filename})
	if err != nil {
		log.WithError(err).Error("session save failed")
		p.publishStatus(ctx, statusCh, "failed", "session save failed")
		return
	}

	payload, _ := json.Marshal(map[string]any{
		"type":       "job_complete",
		"job_id":     jobID,
		"session_id": sess.ID,
		"transcript": result.Transcript,
		"cached":     result.Cached,
		"analysis":   analysis,
	})
	_ = p.Redis.Publish(ctx, resultCh, string(payload)).Err()
	p.publishStatus(ctx, statusCh, "done", "job processed")
}

func (p *AudioWorkerPool) publishStatus(ctx context.Context, channel, status, message string) {
	payload, _ := json.Marshal(map[string]any{
		"type":    "status",
		"status":  status,
		"message": message,
	})
	_ = p.Redis.Publish(ctx, channel, string(payload)).Err()
}
