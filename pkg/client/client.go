// Package client is a small HTTP client for the vlmd invocation contract.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vlmd/pkg/types"
)

// APIError is a non-2xx invocation response decoded into the error contract.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (http %d)", e.Kind, e.Message, e.StatusCode)
}

// Client invokes a running vlmd endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Client for the endpoint at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Infer sends a text-only request.
func (c *Client) Infer(ctx context.Context, prompt string, params *types.GenerationParams) (*types.InferResult, error) {
	return c.invoke(ctx, types.InferRequest{Inputs: prompt, Parameters: params})
}

// InferWithImage sends a multimodal request; image holds raw (not yet
// base64-encoded) bytes.
func (c *Client) InferWithImage(ctx context.Context, prompt string, image []byte, params *types.GenerationParams) (*types.InferResult, error) {
	return c.invoke(ctx, types.InferRequest{
		Inputs:     prompt,
		Image:      base64.StdEncoding.EncodeToString(image),
		Parameters: params,
	})
}

func (c *Client) invoke(ctx context.Context, req types.InferRequest) (*types.InferResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invocations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr types.ErrorResponse
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Error == "" {
			return nil, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Kind: apiErr.Error, Message: apiErr.Message}
	}
	var res types.InferResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

// Status fetches the server status.
func (c *Client) Status(ctx context.Context) (*types.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Ping reports whether the endpoint answers its health contract.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint not ready (http %d)", resp.StatusCode)
	}
	return nil
}
