package httpapi

import "vlmd/internal/payload"

// maxBodyBytes controls the maximum allowed request body size for the
// invocation endpoint. The default leaves headroom for a base64 image on top
// of the payload-level image cap.
var maxBodyBytes int64 = 16 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 16 << 20
		return
	}
	maxBodyBytes = n
}

// payloadLimits bound prompt and image sizes inside the body. Zero fields
// use the payload package defaults.
var payloadLimits payload.Limits

// SetPayloadLimits configures normalizer input bounds.
func SetPayloadLimits(lim payload.Limits) { payloadLimits = lim }

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
