package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"vlmd/internal/engine"
	"vlmd/internal/payload"
	"vlmd/pkg/types"
)

// kinded is implemented by every error the pipeline can produce: the kind is
// the fixed taxonomy string, the message is safe to show to callers.
type kinded interface {
	error
	Kind() string
	Message() string
}

// statusForKind maps the error taxonomy onto HTTP status codes. Kinds not in
// the table are programmer error and fall back to 500.
func statusForKind(kind string) int {
	switch kind {
	case payload.KindMalformedPayload,
		payload.KindMissingPrompt,
		payload.KindInvalidImageEncoding,
		payload.KindUnsupportedImageFormat,
		payload.KindInvalidParameter:
		return http.StatusBadRequest
	case engine.KindImageProcessingError:
		return http.StatusUnprocessableEntity
	case engine.KindResourceExhausted:
		return http.StatusServiceUnavailable
	case engine.KindGenerationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeError formats any pipeline error as the uniform error payload. It is
// total: an unclassified error still yields a well-formed response and never
// leaks internals beyond its message.
func writeError(w http.ResponseWriter, err error) {
	var ke kinded
	if errors.As(err, &ke) {
		writeKind(w, statusForKind(ke.Kind()), ke.Kind(), ke.Message())
		return
	}
	writeKind(w, http.StatusInternalServerError, engine.KindGenerationError, "unexpected failure")
}

// writeKind writes a consistent JSON error payload.
func writeKind(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: kind, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
