// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/folio/signupd/internal/model"

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// SuccessResponse is returned after a successful signup.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON error body used across the API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SignupsResponse wraps the admin listing.
type SignupsResponse struct {
	Signups []*model.Signup `json:"signups"`
}

// NewSignupsResponse never serializes a nil slice as null.
func NewSignupsResponse(signups []*model.Signup) SignupsResponse {
	if signups == nil {
		signups = []*model.Signup{}
	}
	return SignupsResponse{Signups: signups}
}
