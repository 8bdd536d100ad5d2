// Package config loads runtime parameters for the daemon from an optional
// file (.yaml/.yml, .json, .toml), then environment variables, then flags —
// later sources win.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Backend identifiers accepted in configuration.
const (
	BackendRuntime = "runtime"
	BackendGenAI   = "genai"
	BackendLlama   = "llama"
)

// Config holds runtime parameters for the service.
type Config struct {
	Addr    string `json:"addr" yaml:"addr" toml:"addr"`
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Model is the identifier forwarded to name-addressed backends and
	// reported in /status.
	Model string `json:"model" yaml:"model" toml:"model"`
	// ModelPath points at on-disk weights for the in-process llama backend.
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path"`
	// RuntimeURL is the base URL of the local runtime server.
	RuntimeURL string `json:"runtime_url" yaml:"runtime_url" toml:"runtime_url"`
	// APIKey is never read from files; see ApplyEnv.
	APIKey string `json:"-" yaml:"-" toml:"-"`

	MaxBodyBytes   int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	MaxImageBytes  int   `json:"max_image_bytes" yaml:"max_image_bytes" toml:"max_image_bytes"`
	MaxPromptBytes int   `json:"max_prompt_bytes" yaml:"max_prompt_bytes" toml:"max_prompt_bytes"`

	// SerializeGeneration gates generation behind a single mutex. On by
	// default: only disable it for backends known to be re-entrant.
	SerializeGeneration bool `json:"serialize_generation" yaml:"serialize_generation" toml:"serialize_generation"`

	LlamaCtxSize int `json:"llama_ctx_size" yaml:"llama_ctx_size" toml:"llama_ctx_size"`
	LlamaThreads int `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Addr:                ":8080",
		Backend:             BackendRuntime,
		Model:               "medgemma-4b-it",
		RuntimeURL:          "http://127.0.0.1:8081",
		MaxBodyBytes:        16 << 20,
		MaxImageBytes:       8 << 20,
		MaxPromptBytes:      32 << 10,
		SerializeGeneration: true,
		LlamaCtxSize:        4096,
		LlamaThreads:        4,
		LogLevel:            "info",
	}
}

// Load reads a configuration file based on its extension over the defaults.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from VLMD_* variables. The API key only ever
// comes from the environment (VLMD_API_KEY, falling back to GEMINI_API_KEY
// for the genai backend).
func (c *Config) ApplyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr(&c.Addr, "VLMD_ADDR")
	setStr(&c.Backend, "VLMD_BACKEND")
	setStr(&c.Model, "VLMD_MODEL")
	setStr(&c.ModelPath, "VLMD_MODEL_PATH")
	setStr(&c.RuntimeURL, "VLMD_RUNTIME_URL")
	setStr(&c.LogLevel, "VLMD_LOG_LEVEL")
	if v := os.Getenv("VLMD_MAX_IMAGE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxImageBytes = n
		}
	}
	if v := os.Getenv("VLMD_SERIALIZE_GENERATION"); v != "" {
		c.SerializeGeneration = v != "0" && !strings.EqualFold(v, "false")
	}
	setStr(&c.APIKey, "VLMD_API_KEY")
	if c.APIKey == "" {
		setStr(&c.APIKey, "GEMINI_API_KEY")
	}
}

// Validate rejects configurations the daemon cannot start with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRuntime:
		if strings.TrimSpace(c.RuntimeURL) == "" {
			return fmt.Errorf("runtime backend requires runtime_url")
		}
	case BackendGenAI:
		if strings.TrimSpace(c.Model) == "" {
			return fmt.Errorf("genai backend requires a model id")
		}
		if c.APIKey == "" {
			return fmt.Errorf("genai backend requires VLMD_API_KEY or GEMINI_API_KEY")
		}
	case BackendLlama:
		if strings.TrimSpace(c.ModelPath) == "" {
			return fmt.Errorf("llama backend requires model_path")
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.MaxBodyBytes <= 0 || c.MaxImageBytes <= 0 || c.MaxPromptBytes <= 0 {
		return fmt.Errorf("size limits must be positive")
	}
	return nil
}
