package server

import "github.com/smoodsie/beatsync-codex/internal/domain"

// ExtractRequest carries either raw markup or a page URL
type ExtractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// ExtractResponse is a playlist plus an optional notice
type ExtractResponse struct {
	*domain.Playlist
	Message string `json:"message,omitempty"`
}

// PlaylistFile describes one stored playlist
type PlaylistFile struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// MessageResponse represents a generic message payload used for success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a generic error payload used for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
