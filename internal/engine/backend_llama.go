//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBackend runs generation in-process through the llama.cpp bindings.
// The binding's Predict is not re-entrant, so this backend must be used with
// the engine's serialization gate enabled. Text-only: the binding has no
// image projector.
type llamaBackend struct {
	model   *llama.LLama
	threads int
}

// NewLlamaBackend loads the model weights once. The returned backend holds
// them until Close.
func NewLlamaBackend(modelPath string, ctxSize, threads int) (Backend, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaBackend{model: m, threads: threads}, nil
}

func (b *llamaBackend) Name() string { return "llama" }

func (b *llamaBackend) Generate(ctx context.Context, req GenRequest) (string, error) {
	if b.model == nil {
		return "", errors.New("llama model not initialized")
	}
	if len(req.Image) > 0 {
		return "", ErrImageProcessing("in-process llama backend is text-only; use the runtime or genai backend for image input")
	}
	// Bridge cancellation into the token callback so a canceled context stops
	// generation at the next token boundary.
	b.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	po := []llama.PredictOption{
		llama.SetTokens(req.MaxNewTokens),
		llama.SetThreads(maxInt(1, b.threads)),
		llama.SetTemperature(float32(req.Temperature)),
	}
	text, err := b.model.Predict(req.Prompt, po...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if strings.Contains(strings.ToLower(err.Error()), "alloc") {
			return "", ErrResourceExhausted(err.Error())
		}
		return "", err
	}
	return text, nil
}

func (b *llamaBackend) Ready(ctx context.Context) bool { return b.model != nil }

func (b *llamaBackend) Close() error {
	if b.model != nil {
		b.model.Free()
		b.model = nil
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
