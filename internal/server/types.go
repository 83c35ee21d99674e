// SPDX-License-Identifier: EPL-2.0

package server

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Upstream bool   `json:"upstream_configured"`
}

const (
	msgMethodNotAllowed = "Method not allowed"
	msgNoFile           = "No audio file provided"
	msgNoAPIKey         = "API key not configured"
	msgUpstream         = "Error from OpenAI API"
	msgServer           = "Server error"
	msgTooLarge         = "File too large"
	msgInternal         = "Internal server error"
)
