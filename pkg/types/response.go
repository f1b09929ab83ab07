package types

const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Envelope is the wire shape shared by every endpoint. Count is a pointer so
// list endpoints can emit count=0 while single-object endpoints omit it.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// ErrorEnvelope carries the public error contract.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
	Error   string `json:"error,omitempty"`
}
