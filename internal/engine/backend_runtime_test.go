package engine

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRuntimeBackendTextCompletion(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completion" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "hello from runtime"})
	}))
	defer srv.Close()

	b := NewRuntimeBackend(srv.URL, "", "medgemma-4b-it", 5*time.Second)
	text, err := b.Generate(context.Background(), GenRequest{
		Prompt:       "hi",
		MaxNewTokens: 128,
		Temperature:  0.9,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "hello from runtime" {
		t.Fatalf("text=%q", text)
	}
	if got.NPredict != 128 || got.Temperature != 0.9 {
		t.Fatalf("parameters not forwarded: %+v", got)
	}
	if got.Stream || got.CachePrompt {
		t.Fatalf("unexpected streaming/caching flags: %+v", got)
	}
	if len(got.ImageData) != 0 {
		t.Fatalf("unexpected image data on text path")
	}
}

func TestRuntimeBackendMultimodalCompletion(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "an image"})
	}))
	defer srv.Close()

	b := NewRuntimeBackend(srv.URL, "", "", 0)
	if _, err := b.Generate(context.Background(), GenRequest{
		Prompt:       "what is this?",
		Image:        img,
		ImageMIME:    "image/jpeg",
		MaxNewTokens: 64,
		Temperature:  0.7,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(got.Prompt, "[img-12]") {
		t.Fatalf("prompt missing image slot: %q", got.Prompt)
	}
	if len(got.ImageData) != 1 || got.ImageData[0].ID != imageSlotID {
		t.Fatalf("image data not attached: %+v", got.ImageData)
	}
	decoded, err := base64.StdEncoding.DecodeString(got.ImageData[0].Data)
	if err != nil || string(decoded) != string(img) {
		t.Fatalf("image bytes did not round-trip")
	}
}

func TestRuntimeBackendFailureClassification(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		check func(error) bool
	}{
		{"oom", "cuda error: out of memory", IsResourceExhausted},
		{"alloc", "ggml: failed to allocate buffer", IsResourceExhausted},
		{"projector", "clip projector failed to encode image", IsImageProcessing},
		{"other", "tokenizer panic", IsGeneration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tc.body, http.StatusInternalServerError)
			}))
			defer srv.Close()
			b := NewRuntimeBackend(srv.URL, "", "", 0)
			_, err := b.Generate(context.Background(), GenRequest{Prompt: "hi", MaxNewTokens: 8, Temperature: 0.7})
			if !tc.check(err) {
				t.Fatalf("misclassified: %v", err)
			}
		})
	}
}

func TestRuntimeBackendReady(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if healthy {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewRuntimeBackend(srv.URL, "", "", 0)
	if !b.Ready(context.Background()) {
		t.Fatalf("expected ready")
	}
	healthy = false
	if b.Ready(context.Background()) {
		t.Fatalf("expected not ready")
	}
}

func TestRuntimeBackendSendsAPIKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "ok"})
	}))
	defer srv.Close()

	b := NewRuntimeBackend(srv.URL, "sekrit", "", 0)
	if _, err := b.Generate(context.Background(), GenRequest{Prompt: "hi", MaxNewTokens: 8, Temperature: 0.7}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if auth != "Bearer sekrit" {
		t.Fatalf("auth=%q", auth)
	}
}
