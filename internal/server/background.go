package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/smoodsie/beatsync-codex/internal/job"
	"github.com/smoodsie/beatsync-codex/internal/output"
	"github.com/smoodsie/beatsync-codex/internal/playlist"
	"github.com/smoodsie/beatsync-codex/internal/progress"
)

// processJobInBackground fetches, extracts and stores one playlist
func (s *Server) processJobInBackground(ctx context.Context, jobID, pageURL string, format output.Format) {
	slog.Info("Starting background extraction", "jobId", jobID, "url", pageURL)

	// Add timeout to prevent jobs from hanging indefinitely
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	tracker := progress.NewProgressTracker()
	tracker.AddListener(func(event progress.Event) {
		if err := s.jobManager.RecordEvent(jobID, event); err != nil {
			slog.Warn("Failed to record job event", "jobId", jobID, "error", err)
		}
		slog.Debug("Job progress update", "jobId", jobID, "stage", event.Stage, "progress", event.Progress, "message", event.Message)
	})
	tracker.UpdateProgress(progress.StageInitializing, 0, "Starting extraction")

	fail := func(cause error) {
		tracker.SetError(cause)
		if errors.Is(ctx.Err(), context.Canceled) {
			slog.Warn("Job cancelled", "jobId", jobID)
		} else {
			slog.Error("Job failed", "jobId", jobID, "error", cause)
		}
		if err := s.jobManager.Fail(jobID, cause); err != nil {
			slog.Warn("Failed to mark job as failed", "jobId", jobID, "error", err)
		}
	}

	result, err := s.service.Extract(ctx, pageURL, tracker)
	if err == nil {
		err = playlist.RequireTracks(result)
	}
	if err != nil {
		fail(err)
		return
	}

	tracker.UpdateProgress(progress.StageWriting, progress.PercentWriting, "Writing playlist")
	name := output.FileName(result.Name, format, result.ExtractedAt)
	location, err := output.Save(ctx, s.store, name, format, result.Tracks)
	if err != nil {
		fail(err)
		return
	}

	tracker.UpdateProgress(progress.StageComplete, progress.PercentComplete, "Playlist saved")
	if err := s.jobManager.Complete(jobID, result, location); err != nil {
		slog.Warn("Failed to complete job", "jobId", jobID, "error", err)
		return
	}
	slog.Info("Job completed successfully", "jobId", jobID, "tracks", len(result.Tracks), "location", location)
}
