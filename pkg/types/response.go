package types

// SuccessEnvelope is the shared success response shape consumed by the SPA.
type SuccessEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data"`
}

// ErrorEnvelope is the shared error response shape.
type ErrorEnvelope struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Extra      any    `json:"extra,omitempty"`
}
