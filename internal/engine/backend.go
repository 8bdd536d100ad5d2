package engine

import "context"

// GenRequest is the backend view of a validated request. Image is nil on the
// text-only path; when set, ImageMIME names its sniffed format.
type GenRequest struct {
	Prompt       string
	Image        []byte
	ImageMIME    string
	MaxNewTokens int
	Temperature  float64
}

// Backend abstracts the generative model runtime. One call produces one
// completion; streaming and batching are runtime concerns, not surfaced here.
// Implementations should return errors constructed with ErrResourceExhausted
// or ErrImageProcessing when they can classify the failure; anything else is
// wrapped into a generation error by the engine.
type Backend interface {
	// Name identifies the backend implementation (e.g. "runtime", "genai").
	Name() string
	// Generate runs a single forward pass and returns the generated text.
	// MaxNewTokens and Temperature must be forwarded to the model unmodified.
	Generate(ctx context.Context, req GenRequest) (string, error)
	// Ready reports whether the backend can serve a request right now.
	Ready(ctx context.Context) bool
	// Close releases backend resources on process shutdown.
	Close() error
}
