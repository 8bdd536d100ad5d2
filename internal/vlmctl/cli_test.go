package vlmctl

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vlmd/pkg/types"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := buildRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInferCommand(t *testing.T) {
	var got types.InferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(types.InferResult{GeneratedText: "forty-two", InferenceTime: 0.2})
	}))
	defer srv.Close()

	out, err := runCLI(t, "--endpoint", srv.URL, "infer", "what", "is", "the", "answer?")
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if !strings.Contains(out, "forty-two") {
		t.Fatalf("output=%q", out)
	}
	if got.Inputs != "what is the answer?" {
		t.Fatalf("prompt=%q", got.Inputs)
	}
	// Params are only attached when flags are set explicitly.
	if got.Parameters != nil {
		t.Fatalf("unexpected parameters: %+v", got.Parameters)
	}
}

func TestInferCommandFlags(t *testing.T) {
	var got types.InferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(types.InferResult{GeneratedText: "ok", InferenceTime: 0.1})
	}))
	defer srv.Close()

	if _, err := runCLI(t, "--endpoint", srv.URL, "infer", "--max-new-tokens", "64", "--temperature", "1.1", "hi"); err != nil {
		t.Fatalf("infer: %v", err)
	}
	if got.Parameters == nil || got.Parameters.MaxNewTokens == nil || *got.Parameters.MaxNewTokens != 64 {
		t.Fatalf("max_new_tokens not sent: %+v", got.Parameters)
	}
	if got.Parameters.Temperature == nil || *got.Parameters.Temperature != 1.1 {
		t.Fatalf("temperature not sent: %+v", got.Parameters)
	}
}

func TestInferCommandWithImage(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.jpg")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	var got types.InferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(types.InferResult{GeneratedText: "a scan", InferenceTime: 0.3})
	}))
	defer srv.Close()

	if _, err := runCLI(t, "--endpoint", srv.URL, "infer", "--image", path, "describe this"); err != nil {
		t.Fatalf("infer: %v", err)
	}
	if got.Image == "" {
		t.Fatalf("image not attached")
	}
}

func TestInferCommandSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: "InvalidParameter", Message: "max_new_tokens must be > 0"})
	}))
	defer srv.Close()

	_, err := runCLI(t, "--endpoint", srv.URL, "infer", "hi")
	if err == nil || !strings.Contains(err.Error(), "InvalidParameter") {
		t.Fatalf("expected InvalidParameter error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.StatusResponse{Backend: "runtime", Model: "m", Ready: true})
	}))
	defer srv.Close()

	out, err := runCLI(t, "--endpoint", srv.URL, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, `"backend": "runtime"`) {
		t.Fatalf("output=%q", out)
	}
}

func TestPingCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := runCLI(t, "--endpoint", srv.URL, "ping"); err == nil {
		t.Fatalf("expected ping error while loading")
	}
}
