package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"vlmd/internal/common/fsutil"
	"vlmd/internal/config"
	"vlmd/internal/engine"
	"vlmd/internal/httpapi"
	"vlmd/internal/payload"
)

func main() {
	// Local development keys live in .env; missing files are fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file (.yaml, .json or .toml)")
	addr := flag.String("addr", "", "HTTP listen address, e.g. :8080")
	backendName := flag.String("backend", "", "Backend: runtime | genai | llama")
	model := flag.String("model", "", "Model id forwarded to the backend and reported in /status")
	modelPath := flag.String("model-path", "", "On-disk weights for the llama backend")
	runtimeURL := flag.String("runtime-url", "", "Base URL of the runtime server")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			stderrFatal("load config: " + err.Error())
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	applyFlags(&cfg, *addr, *backendName, *model, *modelPath, *runtimeURL, *logLevel)
	if err := cfg.Validate(); err != nil {
		stderrFatal("invalid config: " + err.Error())
	}

	logger := newLogger(cfg.LogLevel)

	// Base context canceled on SIGINT/SIGTERM; in-flight generations observe it.
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := buildBackend(baseCtx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("backend init failed")
	}
	eng := engine.New(backend, engine.Config{
		Model:               cfg.Model,
		SerializeGeneration: cfg.SerializeGeneration,
		Logger:              logger,
	})
	defer func() { _ = eng.Close() }()

	httpapi.SetLogger(logger)
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPayloadLimits(payload.Limits{
		MaxPromptBytes: cfg.MaxPromptBytes,
		MaxImageBytes:  cfg.MaxImageBytes,
	})
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(eng)}
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Str("model", cfg.Model).Msg("vlmd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-baseCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

func applyFlags(cfg *config.Config, addr, backend, model, modelPath, runtimeURL, logLevel string) {
	if addr != "" {
		cfg.Addr = addr
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if model != "" {
		cfg.Model = model
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}
	if runtimeURL != "" {
		cfg.RuntimeURL = runtimeURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func buildBackend(ctx context.Context, cfg config.Config) (engine.Backend, error) {
	switch cfg.Backend {
	case config.BackendGenAI:
		return engine.NewGenAIBackend(ctx, cfg.APIKey, cfg.Model)
	case config.BackendLlama:
		path, err := fsutil.ExpandHome(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		if !fsutil.PathExists(path) {
			return nil, fmt.Errorf("model weights not found at %s", path)
		}
		return engine.NewLlamaBackend(path, cfg.LlamaCtxSize, cfg.LlamaThreads)
	default:
		return engine.NewRuntimeBackend(cfg.RuntimeURL, cfg.APIKey, cfg.Model, 0), nil
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

func stderrFatal(msg string) {
	os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}
