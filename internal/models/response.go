package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ErrorDetail represents error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse represents an error response envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ExportResponse represents the response to an export request
type ExportResponse struct {
	RequestID string `json:"request_id"`
	File      string `json:"file"`
	SizeBytes int    `json:"size_bytes"`
}
