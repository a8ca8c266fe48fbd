package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/progress"
)

// Manager handles job management. Callers only ever see copies of a job.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*Status
}

// NewManager creates a new job manager
func NewManager() *Manager {
	return &Manager{
		jobs: make(map[string]*Status),
	}
}

// CreateJob registers a pending job. The returned context is cancelled when
// the job is.
func (m *Manager) CreateJob(req Request) (*Status, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())

	job := &Status{
		ID:         uuid.NewString(),
		URL:        req.URL,
		Format:     req.Format,
		Status:     StatusPending,
		Progress:   0,
		Message:    "Job created",
		Events:     make([]progress.Event, 0),
		StartTime:  time.Now(),
		cancelFunc: cancel,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	return job.snapshot(), ctx
}

// GetJob retrieves a job by ID
func (m *Manager) GetJob(jobID string) (*Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return job.snapshot(), nil
}

// RecordEvent appends a progress event and moves a pending job to
// processing. Events for finished jobs are dropped.
func (m *Manager) RecordEvent(jobID string, event progress.Event) error {
	return m.update(jobID, func(job *Status) error {
		if terminal(job.Status) {
			return nil
		}
		job.Status = StatusProcessing
		job.Progress = event.Progress
		job.Message = event.Message
		if event.TrackCount > 0 {
			job.TrackCount = event.TrackCount
		}
		job.Events = append(job.Events, event)
		return nil
	})
}

// Complete marks a job as finished with its extracted playlist
func (m *Manager) Complete(jobID string, playlist *domain.Playlist, location string) error {
	return m.update(jobID, func(job *Status) error {
		if terminal(job.Status) {
			return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
		}
		job.Status = StatusCompleted
		job.Progress = progress.PercentComplete
		job.Message = "Extraction completed successfully"
		job.PlaylistName = playlist.Name
		job.TrackCount = len(playlist.Tracks)
		job.Tracks = playlist.Tracks
		job.Location = location
		job.finish()
		return nil
	})
}

// Fail marks a job as failed. A cancelled job keeps its status.
func (m *Manager) Fail(jobID string, cause error) error {
	return m.update(jobID, func(job *Status) error {
		if terminal(job.Status) {
			return nil
		}
		job.Status = StatusFailed
		job.Error = cause.Error()
		job.Message = "Extraction failed"
		job.finish()
		return nil
	})
}

// CancelJob cancels a job
func (m *Manager) CancelJob(jobID string) error {
	return m.update(jobID, func(job *Status) error {
		if job.Status != StatusProcessing && job.Status != StatusPending {
			return fmt.Errorf("%w: %s", ErrInvalidState, job.Status)
		}

		job.cancelFunc()
		job.Status = StatusCancelled
		job.Message = "Job cancelled by user"
		job.finish()
		return nil
	})
}

// ListJobs lists all jobs, oldest first, with pagination
func (m *Manager) ListJobs(page, pageSize int) *Response {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	m.mu.RLock()
	jobs := make([]*Status, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job.snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].StartTime.Equal(jobs[j].StartTime) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].StartTime.Before(jobs[j].StartTime)
	})

	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= len(jobs) {
		return &Response{
			Jobs:       []*Status{},
			Page:       page,
			PageSize:   pageSize,
			TotalJobs:  len(jobs),
			TotalPages: (len(jobs) + pageSize - 1) / pageSize,
		}
	}

	if end > len(jobs) {
		end = len(jobs)
	}

	return &Response{
		Jobs:       jobs[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalJobs:  len(jobs),
		TotalPages: (len(jobs) + pageSize - 1) / pageSize,
	}
}

func (m *Manager) update(jobID string, apply func(job *Status) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return apply(job)
}

func (s *Status) finish() {
	endTime := time.Now()
	s.EndTime = &endTime
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
}

func (s *Status) snapshot() *Status {
	copied := *s
	copied.Events = append([]progress.Event{}, s.Events...)
	copied.Tracks = append([]domain.Track(nil), s.Tracks...)
	if s.EndTime != nil {
		endTime := *s.EndTime
		copied.EndTime = &endTime
	}
	return &copied
}
