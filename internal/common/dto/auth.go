package dto

import "github.com/guichet-numerique/carrousel/internal/apiserver/database"

// LoginRequest carries the identity assertion issued by the login portal.
type LoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LoginResponse is returned once the session cookie is set.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *database.User `json:"user"`
}

// SuccessResponse is the result of mutations that return nothing else.
type SuccessResponse struct {
	Success bool `json:"success"`
}

var OK = SuccessResponse{Success: true}

// IDResponse is returned by mutations that create a row.
type IDResponse struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

// URLResponse is returned by uploads.
type URLResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
