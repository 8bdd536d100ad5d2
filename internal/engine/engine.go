// Package engine holds the process-wide model state and runs generation.
// An Engine is constructed exactly once at startup, is read-only afterwards,
// and is shared by all in-flight requests.
package engine

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"vlmd/internal/payload"
	"vlmd/pkg/types"
)

// Config carries the immutable engine settings chosen at startup.
type Config struct {
	// Model identifier reported in /status and forwarded to backends that
	// select models by name.
	Model string
	// SerializeGeneration gates Generate behind a single mutex for backends
	// that are not re-entrant. Throughput is traded for correctness.
	SerializeGeneration bool
	Logger              zerolog.Logger
}

// Engine is the explicit ModelState handle passed into the HTTP layer.
type Engine struct {
	backend Backend
	model   string
	gate    *sync.Mutex
	log     zerolog.Logger
	started time.Time

	requestsOK     atomic.Uint64
	requestsFailed atomic.Uint64
}

// New wires a backend into an Engine. The backend must already be loaded;
// cold-start latency belongs to the caller.
func New(b Backend, cfg Config) *Engine {
	e := &Engine{
		backend: b,
		model:   cfg.Model,
		log:     cfg.Logger,
		started: time.Now(),
	}
	if cfg.SerializeGeneration {
		e.gate = &sync.Mutex{}
	}
	return e
}

// Infer runs the invoker stage for one normalized request. It never retries:
// the request either completes or fails with a single, classified error.
func (e *Engine) Infer(ctx context.Context, req payload.Request) (types.InferResult, error) {
	modality := "text"
	if req.Multimodal() {
		modality = "multimodal"
		// The normalizer already checked the magic bytes; here the full pixel
		// data must decode before it is handed to the model.
		if _, _, err := image.Decode(bytes.NewReader(req.Image)); err != nil {
			e.requestsFailed.Add(1)
			observeInference(modality, "image_error", 0)
			return types.InferResult{}, ErrImageProcessing("cannot decode image pixel data: " + err.Error())
		}
	}

	if e.gate != nil {
		e.gate.Lock()
		defer e.gate.Unlock()
	}

	start := time.Now()
	text, err := e.backend.Generate(ctx, GenRequest{
		Prompt:       req.Prompt,
		Image:        req.Image,
		ImageMIME:    req.ImageMIME,
		MaxNewTokens: req.MaxNewTokens,
		Temperature:  req.Temperature,
	})
	dur := time.Since(start)

	if err != nil {
		e.requestsFailed.Add(1)
		kind := KindGenerationError
		switch {
		case IsResourceExhausted(err), IsImageProcessing(err), IsGeneration(err):
			// Already classified by the backend.
			if IsResourceExhausted(err) {
				kind = KindResourceExhausted
			} else if IsImageProcessing(err) {
				kind = KindImageProcessingError
			}
		default:
			err = ErrGeneration(err.Error())
		}
		observeInference(modality, kind, dur.Seconds())
		e.log.Error().Err(err).Str("modality", modality).Dur("dur", dur).Msg("generation failed")
		return types.InferResult{}, err
	}
	if text == "" {
		e.requestsFailed.Add(1)
		observeInference(modality, KindGenerationError, dur.Seconds())
		return types.InferResult{}, ErrGeneration("model returned no text")
	}

	e.requestsOK.Add(1)
	observeInference(modality, "ok", dur.Seconds())
	e.log.Debug().Str("modality", modality).Dur("dur", dur).Int("max_new_tokens", req.MaxNewTokens).Msg("generation done")
	return types.InferResult{
		GeneratedText: text,
		InferenceTime: dur.Seconds(),
	}, nil
}

// Ready reports whether the backend can serve traffic.
func (e *Engine) Ready(ctx context.Context) bool {
	return e.backend.Ready(ctx)
}

// Status summarizes the engine for GET /status.
func (e *Engine) Status(ctx context.Context) types.StatusResponse {
	now := time.Now()
	return types.StatusResponse{
		Backend:        e.backend.Name(),
		Model:          e.model,
		Ready:          e.backend.Ready(ctx),
		UptimeSeconds:  int64(now.Sub(e.started).Seconds()),
		ServerTimeUnix: now.Unix(),
		RequestsOK:     e.requestsOK.Load(),
		RequestsFailed: e.requestsFailed.Load(),
	}
}

// Close releases the backend.
func (e *Engine) Close() error {
	return e.backend.Close()
}
