package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vlmd/internal/payload"
	"vlmd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Infer(ctx context.Context, req payload.Request) (types.InferResult, error)
	Ready(ctx context.Context) bool
	Status(ctx context.Context) types.StatusResponse
}

// NewMux builds the router implementing the invocation contract plus the
// operational endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/invocations", handleInvocations(svc))

	// Managed-hosting health contract: 200 once the model can serve.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready(r.Context()) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready(r.Context()) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status(r.Context()))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleInvocations runs the normalize/invoke/format pipeline for one request.
//
// @Summary     Run inference
// @Description Accepts a prompt with an optional base64 image and returns generated text.
// @Accept      json
// @Produce     json
// @Param       request body types.InferRequest true "inference request"
// @Success     200 {object} types.InferResult
// @Failure     400 {object} types.ErrorResponse
// @Router      /invocations [post]
func handleInvocations(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeKind(w, http.StatusUnsupportedMediaType, payload.KindMalformedPayload, "Content-Type must be application/json")
			return
		}

		// Limit body size (configurable, default 16MiB to leave room for images)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			// Oversized bodies land here; keep the message size-agnostic.
			writeKind(w, http.StatusBadRequest, payload.KindMalformedPayload, "could not read request body")
			return
		}

		req, err := payload.Parse(body, ct, payloadLimits)
		if err != nil {
			logEnd(r, time.Time{}, err)
			writeError(w, err)
			return
		}

		start := time.Now()
		logStart(r, req)
		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		res, err := svc.Infer(ctx, req)
		if err != nil {
			// Client disconnects produce no response at all.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			logEnd(r, start, err)
			writeError(w, err)
			return
		}
		logEnd(r, start, nil)
		writeJSON(w, http.StatusOK, res)
	}
}
