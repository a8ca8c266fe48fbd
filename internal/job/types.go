package job

import (
	"context"
	"time"

	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/progress"
)

// Status represents the current state of an extraction job
type Status struct {
	ID           string           `json:"id"`
	URL          string           `json:"url"`
	Format       string           `json:"format"`
	Status       string           `json:"status"`
	Progress     float64          `json:"progress"`
	Message      string           `json:"message"`
	Error        string           `json:"error,omitempty"`
	PlaylistName string           `json:"playlistName,omitempty"`
	TrackCount   int              `json:"trackCount"`
	Location     string           `json:"location,omitempty"`
	Tracks       []domain.Track   `json:"tracks,omitempty"`
	Events       []progress.Event `json:"events"`
	StartTime    time.Time        `json:"startTime"`
	EndTime      *time.Time       `json:"endTime,omitempty"`
	cancelFunc   context.CancelFunc
}

// Request represents the request body for an extraction job
type Request struct {
	URL    string `json:"url" binding:"required"`
	Format string `json:"format"`
}

// Response represents the response for job status
type Response struct {
	Jobs       []*Status `json:"jobs"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalJobs  int       `json:"totalJobs"`
	TotalPages int       `json:"totalPages"`
}

// Constants for job status
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Constants for pagination
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Timeout bounds a single job run
const Timeout = 5 * time.Minute

// terminal reports whether a job in status s can no longer change
func terminal(s string) bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}
