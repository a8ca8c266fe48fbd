package server

import (
	"errors"
	"net/http"

	"github.com/smoodsie/beatsync-codex/internal/fetch"
	"github.com/smoodsie/beatsync-codex/internal/job"
	"github.com/smoodsie/beatsync-codex/internal/storage"
)

var ErrMissingSource = errors.New("either url or html is required")

// statusFor maps an error to the HTTP status reported to clients
func statusFor(err error) int {
	var (
		httpErr *fetch.HTTPError
		netErr  *fetch.NetworkError
	)
	switch {
	case errors.Is(err, ErrMissingSource),
		errors.Is(err, fetch.ErrInvalidURL),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, job.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, job.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &httpErr), errors.As(err, &netErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
