// Package payload parses raw invocation bodies into validated requests.
// Parsing is pure: no model state is touched and every rejection carries one
// of the fixed error kinds.
package payload

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Generation parameter defaults applied when the caller omits them.
const (
	DefaultMaxNewTokens = 256
	DefaultTemperature  = 0.7
)

// Default input bounds. Unbounded input would turn every oversized request
// into an accelerator out-of-memory failure, so the normalizer rejects early.
const (
	DefaultMaxPromptBytes = 32 << 10
	DefaultMaxImageBytes  = 8 << 20
)

// Limits bounds accepted input sizes. Zero fields fall back to defaults.
type Limits struct {
	MaxPromptBytes int
	MaxImageBytes  int
}

func (l Limits) withDefaults() Limits {
	if l.MaxPromptBytes <= 0 {
		l.MaxPromptBytes = DefaultMaxPromptBytes
	}
	if l.MaxImageBytes <= 0 {
		l.MaxImageBytes = DefaultMaxImageBytes
	}
	return l
}

// Request is a fully validated inference request. Image is nil for the
// text-only path; when present it holds the decoded bytes exactly as the
// caller encoded them.
type Request struct {
	Prompt       string
	Image        []byte
	ImageMIME    string
	MaxNewTokens int
	Temperature  float64
}

// Multimodal reports whether the request carries an image.
func (r Request) Multimodal() bool { return len(r.Image) > 0 }

// rawRequest defers field decoding so each field can fail with its own kind.
type rawRequest struct {
	Inputs     json.RawMessage `json:"inputs"`
	Image      json.RawMessage `json:"image"`
	Parameters json.RawMessage `json:"parameters"`
}

type rawParams struct {
	MaxNewTokens *int     `json:"max_new_tokens"`
	Temperature  *float64 `json:"temperature"`
}

// Parse validates raw body bytes against the invocation contract and returns
// a normalized Request merged with parameter defaults.
func Parse(body []byte, contentType string, lim Limits) (Request, error) {
	lim = lim.withDefaults()

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return Request{}, validationErr(KindMalformedPayload, fmt.Sprintf("unsupported content type: %q", contentType))
	}

	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, validationErr(KindMalformedPayload, "invalid JSON body")
	}

	prompt, err := parsePrompt(raw.Inputs, lim.MaxPromptBytes)
	if err != nil {
		return Request{}, err
	}

	img, mime, err := parseImage(raw.Image, lim.MaxImageBytes)
	if err != nil {
		return Request{}, err
	}

	maxNew, temp, err := parseParams(raw.Parameters)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Prompt:       prompt,
		Image:        img,
		ImageMIME:    mime,
		MaxNewTokens: maxNew,
		Temperature:  temp,
	}, nil
}

func parsePrompt(raw json.RawMessage, maxBytes int) (string, error) {
	if len(raw) == 0 {
		return "", validationErr(KindMissingPrompt, "inputs is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", validationErr(KindMissingPrompt, "inputs must be a non-empty string")
	}
	if strings.TrimSpace(s) == "" {
		return "", validationErr(KindMissingPrompt, "inputs must be a non-empty string")
	}
	if len(s) > maxBytes {
		return "", validationErr(KindInvalidParameter, fmt.Sprintf("inputs exceeds maximum length of %d bytes", maxBytes))
	}
	return s, nil
}

func parseImage(raw json.RawMessage, maxBytes int) ([]byte, string, error) {
	if len(raw) == 0 {
		return nil, "", nil
	}
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return nil, "", validationErr(KindInvalidImageEncoding, "image must be a base64-encoded string")
	}
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, "", validationErr(KindInvalidImageEncoding, "image is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", validationErr(KindInvalidImageEncoding, "image is empty")
	}
	if len(data) > maxBytes {
		return nil, "", validationErr(KindInvalidParameter, fmt.Sprintf("image exceeds maximum size of %d bytes", maxBytes))
	}
	mime, ok := sniffImage(data)
	if !ok {
		return nil, "", validationErr(KindUnsupportedImageFormat, "image bytes do not match a supported format (png, jpeg, gif)")
	}
	return data, mime, nil
}

func parseParams(raw json.RawMessage) (int, float64, error) {
	maxNew := DefaultMaxNewTokens
	temp := DefaultTemperature
	if len(raw) == 0 {
		return maxNew, temp, nil
	}
	// Unknown keys are ignored for forward compatibility; only wrong types
	// and out-of-range values are rejected.
	var p rawParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0, validationErr(KindInvalidParameter, "parameters must be an object with numeric options")
	}
	if p.MaxNewTokens != nil {
		if *p.MaxNewTokens <= 0 {
			return 0, 0, validationErr(KindInvalidParameter, fmt.Sprintf("max_new_tokens must be > 0, got %d", *p.MaxNewTokens))
		}
		maxNew = *p.MaxNewTokens
	}
	if p.Temperature != nil {
		if *p.Temperature <= 0 || *p.Temperature > 2 {
			return 0, 0, validationErr(KindInvalidParameter, fmt.Sprintf("temperature must be in (0,2], got %g", *p.Temperature))
		}
		temp = *p.Temperature
	}
	return maxNew, temp, nil
}
