package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// runtimeBackend talks to a llama.cpp-style multimodal runtime server over
// HTTP on localhost. The daemon owns the request contract; the runtime owns
// weights, tokenization and the image projector.
type runtimeBackend struct {
	baseURL    string
	apiKey     string
	model      string
	reqTimeout time.Duration
	httpClient *http.Client
}

// imageSlotID is the placeholder id used to fuse image embeddings with the
// text tokens in the runtime's prompt template.
const imageSlotID = 12

// NewRuntimeBackend constructs a Backend speaking the runtime completion
// protocol at baseURL. reqTimeout of 0 disables the per-request deadline.
func NewRuntimeBackend(baseURL, apiKey, model string, reqTimeout time.Duration) Backend {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// Client timeout stays 0: deadlines are carried by the request context.
	return &runtimeBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

func (b *runtimeBackend) Name() string { return "runtime" }

// completionRequest is the runtime's native completion payload. ImageData
// carries inline base64 images referenced from the prompt by slot id.
type completionRequest struct {
	Model       string      `json:"model,omitempty"`
	Prompt      string      `json:"prompt"`
	NPredict    int         `json:"n_predict"`
	Temperature float64     `json:"temperature"`
	Stream      bool        `json:"stream"`
	CachePrompt bool        `json:"cache_prompt"`
	ImageData   []imageData `json:"image_data,omitempty"`
}

type imageData struct {
	Data string `json:"data"`
	ID   int    `json:"id"`
}

type completionResponse struct {
	Content string `json:"content"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (b *runtimeBackend) Generate(ctx context.Context, req GenRequest) (string, error) {
	if b.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.reqTimeout)
		defer cancel()
	}

	payload := completionRequest{
		Model:       b.model,
		Prompt:      req.Prompt,
		NPredict:    req.MaxNewTokens,
		Temperature: req.Temperature,
		Stream:      false,
		CachePrompt: false,
	}
	if len(req.Image) > 0 {
		payload.Prompt = fmt.Sprintf("[img-%d]\n%s", imageSlotID, req.Prompt)
		payload.ImageData = []imageData{{
			Data: base64.StdEncoding.EncodeToString(req.Image),
			ID:   imageSlotID,
		}}
	}

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyRuntimeFailure(resp.StatusCode, string(raw))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("runtime returned malformed response: %w", err)
	}
	if out.Content == "" && out.Error.Message != "" {
		return "", classifyRuntimeFailure(resp.StatusCode, out.Error.Message)
	}
	return out.Content, nil
}

// classifyRuntimeFailure maps runtime error text onto the error taxonomy.
// Memory pressure is surfaced as ResourceExhausted; image projector failures
// as ImageProcessingError; anything else stays a generation error.
func classifyRuntimeFailure(status int, body string) error {
	msg := strings.TrimSpace(body)
	if len(msg) > 512 {
		msg = msg[:512]
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "out of memory"),
		strings.Contains(lower, "oom"),
		strings.Contains(lower, "failed to allocate"):
		return ErrResourceExhausted(msg)
	case strings.Contains(lower, "image"),
		strings.Contains(lower, "clip"),
		strings.Contains(lower, "projector"):
		return ErrImageProcessing(msg)
	default:
		return ErrGeneration(fmt.Sprintf("runtime status %d: %s", status, msg))
	}
}

func (b *runtimeBackend) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (b *runtimeBackend) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}
