// Package playlist turns playlist pages into domain playlists.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/extractor"
	"github.com/smoodsie/beatsync-codex/internal/progress"
)

var ErrNoTracks = errors.New("playlist not found or uses unsupported structure")

// PageFetcher retrieves page markup.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Service composes fetching, extraction and name resolution.
type Service struct {
	fetcher PageFetcher
	now     func() time.Time
}

func NewService(fetcher PageFetcher) *Service {
	return &Service{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Extract fetches pageURL and extracts its playlist. A page without tracks
// is not an error here; see RequireTracks. tracker may be nil.
func (s *Service) Extract(ctx context.Context, pageURL string, tracker *progress.ProgressTracker) (*domain.Playlist, error) {
	report(tracker, progress.StageFetching, progress.PercentFetching, "Fetching playlist page")

	markup, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
	}

	report(tracker, progress.StageExtracting, progress.PercentExtracting, "Extracting tracks")
	playlist := s.ExtractHTML(markup, pageURL)
	if tracker != nil {
		tracker.SetTrackCount(len(playlist.Tracks))
	}

	return playlist, nil
}

// ExtractHTML extracts a playlist from markup that was already retrieved.
func (s *Service) ExtractHTML(markup, sourceURL string) *domain.Playlist {
	blobs := extractor.LocateBlobs(markup)
	playlist := &domain.Playlist{
		Name:        ResolveName(markup, blobs),
		SourceURL:   sourceURL,
		ExtractedAt: s.now(),
		Tracks:      extractor.ExtractFromBlobs(blobs),
	}

	slog.Info("Extracted playlist", "name", playlist.Name, "url", sourceURL, "blobs", len(blobs), "tracks", len(playlist.Tracks))
	return playlist
}

// RequireTracks returns ErrNoTracks for an empty playlist.
func RequireTracks(playlist *domain.Playlist) error {
	if playlist == nil || len(playlist.Tracks) == 0 {
		return ErrNoTracks
	}
	return nil
}

func report(tracker *progress.ProgressTracker, stage progress.Stage, percent float64, message string) {
	if tracker != nil {
		tracker.UpdateProgress(stage, percent, message)
	}
}
