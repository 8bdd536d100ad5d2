//go:build !llama

package engine

import (
	"context"
	"errors"
)

// This file provides a no-CGO stub for the in-process llama backend. It is
// compiled when the 'llama' build tag is NOT set, keeping default builds and
// CI CGO-free. The real backend lives in backend_llama.go (tagged 'llama').

// ErrLlamaNotBuilt is returned when the binary lacks llama support.
var ErrLlamaNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

type llamaBackend struct{}

// NewLlamaBackend fails fast: the llama runtime is not available in this build.
func NewLlamaBackend(modelPath string, ctxSize, threads int) (Backend, error) {
	return nil, ErrLlamaNotBuilt
}

func (b *llamaBackend) Name() string { return "llama" }

func (b *llamaBackend) Generate(ctx context.Context, req GenRequest) (string, error) {
	return "", ErrLlamaNotBuilt
}

func (b *llamaBackend) Ready(ctx context.Context) bool { return false }

func (b *llamaBackend) Close() error { return nil }
