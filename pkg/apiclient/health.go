package apiclient

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Health calls the liveness probe.
func (c *Client) Health() (*HealthResponse, error) {
	return getResource[HealthResponse](c, "/health")
}

// Ready calls the readiness probe. A server that is up but not ready
// returns an *APIError with status 503.
func (c *Client) Ready() (*HealthResponse, error) {
	return getResource[HealthResponse](c, "/health/ready")
}
