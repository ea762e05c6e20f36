package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	OK bool `json:"ok"`
}
