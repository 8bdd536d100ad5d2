package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nbackend: genai\nmodel: m1\nmax_image_bytes: 1024\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Backend != "genai" || cfg.Model != "m1" || cfg.MaxImageBytes != 1024 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if !cfg.SerializeGeneration || cfg.MaxPromptBytes != Default().MaxPromptBytes {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","backend":"llama","model_path":"/m/weights.gguf","serialize_generation":false}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Backend != "llama" || cfg.ModelPath != "/m/weights.gguf" || cfg.SerializeGeneration {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nbackend=\"runtime\"\nruntime_url=\"http://127.0.0.1:9000\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.RuntimeURL != "http://127.0.0.1:9000" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("VLMD_ADDR", ":6060")
	t.Setenv("VLMD_BACKEND", "genai")
	t.Setenv("VLMD_MODEL", "gemma-3-4b-it")
	t.Setenv("VLMD_MAX_IMAGE_BYTES", "2048")
	t.Setenv("VLMD_SERIALIZE_GENERATION", "false")
	t.Setenv("GEMINI_API_KEY", "k123")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Addr != ":6060" || cfg.Backend != "genai" || cfg.Model != "gemma-3-4b-it" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.MaxImageBytes != 2048 || cfg.SerializeGeneration {
		t.Fatalf("numeric/bool overrides not applied: %+v", cfg)
	}
	if cfg.APIKey != "k123" {
		t.Fatalf("api key fallback not applied")
	}
}

func TestAPIKeyPrecedence(t *testing.T) {
	t.Setenv("VLMD_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "fallback")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.APIKey != "primary" {
		t.Fatalf("api key precedence wrong: %q", cfg.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default ok", func(c *Config) {}, false},
		{"runtime without url", func(c *Config) { c.RuntimeURL = "" }, true},
		{"genai without key", func(c *Config) { c.Backend = BackendGenAI }, true},
		{"genai ok", func(c *Config) { c.Backend = BackendGenAI; c.APIKey = "k" }, false},
		{"llama without path", func(c *Config) { c.Backend = BackendLlama }, true},
		{"llama ok", func(c *Config) { c.Backend = BackendLlama; c.ModelPath = "/m.gguf" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "tpu" }, true},
		{"bad limit", func(c *Config) { c.MaxImageBytes = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
