package httpapi

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"vlmd/internal/payload"
)

// zlog is the structured logger for the HTTP layer. Defaults to a no-op
// logger until SetLogger installs the process logger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("VLMD_LOG_LEVEL"))

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

func logStart(r *http.Request, req payload.Request) {
	if requestLogLevel(r) < LevelInfo {
		return
	}
	modality := "text"
	if req.Multimodal() {
		modality = "multimodal"
	}
	z := zlog.Info().Str("path", r.URL.Path).Str("modality", modality).Int("max_new_tokens", req.MaxNewTokens)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("infer start")
}

func logEnd(r *http.Request, start time.Time, err error) {
	lvl := requestLogLevel(r)
	if err != nil && lvl < LevelError {
		return
	}
	if err == nil && lvl < LevelInfo {
		return
	}
	var z *zerolog.Event
	if err != nil {
		z = zlog.Error().Err(err)
	} else {
		z = zlog.Info()
	}
	if !start.IsZero() {
		z = z.Dur("dur", time.Since(start))
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("infer end")
}
