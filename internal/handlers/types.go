// Package handlers contains the echo route handlers: the public webhook
// surface Meta calls into and the JWT-guarded ops endpoints.
package handlers

// ErrorResponse is the JSON error body for routes that answer with an
// explicit payload instead of echo's default error shape.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AckResponse acknowledges a webhook delivery. Meta only inspects the
// status code; the body is for humans replaying requests.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
