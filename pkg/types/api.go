package types

// GenerationParams are the caller-supplied generation knobs. Pointer fields
// distinguish "omitted" from zero so defaults can be merged in.
type GenerationParams struct {
	// Maximum number of new tokens to generate.
	// example: 256
	MaxNewTokens *int `json:"max_new_tokens,omitempty" example:"256"`
	// Sampling temperature in (0,2]; values near 0 approach greedy decoding.
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
}

// InferRequest is the invocation payload accepted by POST /invocations.
type InferRequest struct {
	// Required prompt text.
	// example: What are the symptoms of pneumonia?
	Inputs string `json:"inputs" example:"What are the symptoms of pneumonia?"`
	// Optional base64-encoded raster image (PNG, JPEG or GIF).
	Image string `json:"image,omitempty"`
	// Optional generation parameters; unknown keys are ignored.
	Parameters *GenerationParams `json:"parameters,omitempty"`
}

// InferResult is the success payload. Both fields are always present.
type InferResult struct {
	// Text generated by the model.
	// example: Common symptoms include fever, cough and chest pain.
	GeneratedText string `json:"generated_text" example:"Common symptoms include fever, cough and chest pain."`
	// Wall-clock generation time in seconds.
	// example: 1.42
	InferenceTime float64 `json:"inference_time" example:"1.42"`
}

// ErrorResponse is the uniform error payload. Error holds one of the fixed
// error kind strings; Message is human-readable and never carries stack
// traces or credentials.
type ErrorResponse struct {
	// Error kind.
	// example: MissingPrompt
	Error string `json:"error" example:"MissingPrompt"`
	// Human-readable detail.
	// example: inputs must be a non-empty string
	Message string `json:"message" example:"inputs must be a non-empty string"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Backend implementation serving requests.
	// example: runtime
	Backend string `json:"backend" example:"runtime"`
	// Model identifier configured at startup.
	// example: medgemma-4b-it
	Model string `json:"model" example:"medgemma-4b-it"`
	// Whether the backend reported itself ready at the time of the call.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total requests that produced a success response.
	// example: 120
	RequestsOK uint64 `json:"requests_ok" example:"120"`
	// Total requests that produced an error response.
	// example: 3
	RequestsFailed uint64 `json:"requests_failed" example:"3"`
}
