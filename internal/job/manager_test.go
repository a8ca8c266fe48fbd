package job

import (
	"errors"
	"sync"
	"testing"

	"github.com/smoodsie/beatsync-codex/internal/domain"
	"github.com/smoodsie/beatsync-codex/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	m := NewManager()

	created, ctx := m.CreateJob(Request{URL: "https://example.com/p", Format: "json"})
	require.NotEmpty(t, created.ID)
	assert.Equal(t, StatusPending, created.Status)

	require.NoError(t, m.RecordEvent(created.ID, progress.Event{Stage: progress.StageFetching, Progress: 10, Message: "Fetching"}))
	require.NoError(t, m.RecordEvent(created.ID, progress.Event{Stage: progress.StageExtracting, Progress: 50, Message: "Extracting", TrackCount: 2}))

	current, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, current.Status)
	assert.Equal(t, 50.0, current.Progress)
	assert.Equal(t, 2, current.TrackCount)
	assert.Len(t, current.Events, 2)

	playlist := &domain.Playlist{Name: "Peak", Tracks: []domain.Track{{SongName: "A"}, {SongName: "B"}}}
	require.NoError(t, m.Complete(created.ID, playlist, "output/peak.json"))

	done, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, 100.0, done.Progress)
	assert.Equal(t, "Peak", done.PlaylistName)
	assert.Equal(t, "output/peak.json", done.Location)
	assert.Equal(t, playlist.Tracks, done.Tracks)
	assert.NotNil(t, done.EndTime)
	assert.Error(t, ctx.Err(), "job context is released once finished")

	// Finished jobs ignore late events and cannot be cancelled.
	require.NoError(t, m.RecordEvent(created.ID, progress.Event{Progress: 10}))
	assert.ErrorIs(t, m.CancelJob(created.ID), ErrInvalidState)
	assert.ErrorIs(t, m.Complete(created.ID, playlist, ""), ErrInvalidState)
}

func TestJobFail(t *testing.T) {
	m := NewManager()
	created, _ := m.CreateJob(Request{URL: "https://example.com/p"})

	require.NoError(t, m.Fail(created.ID, errors.New("boom")))

	failed, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.Error)
}

func TestCancelJob(t *testing.T) {
	m := NewManager()
	created, ctx := m.CreateJob(Request{URL: "https://example.com/p"})

	require.NoError(t, m.CancelJob(created.ID))
	assert.Error(t, ctx.Err())

	// A failure reported after cancellation keeps the cancelled status.
	require.NoError(t, m.Fail(created.ID, ctx.Err()))
	cancelled, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Empty(t, cancelled.Error)

	assert.ErrorIs(t, m.CancelJob(created.ID), ErrInvalidState)
}

func TestUnknownJob(t *testing.T) {
	m := NewManager()

	_, err := m.GetJob("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.CancelJob("missing"), ErrNotFound)
	assert.ErrorIs(t, m.RecordEvent("missing", progress.Event{}), ErrNotFound)
	assert.ErrorIs(t, m.Fail("missing", errors.New("x")), ErrNotFound)
}

func TestGetJobReturnsCopy(t *testing.T) {
	m := NewManager()
	created, _ := m.CreateJob(Request{URL: "https://example.com/p"})

	snapshot, err := m.GetJob(created.ID)
	require.NoError(t, err)
	snapshot.Status = StatusFailed
	snapshot.Events = append(snapshot.Events, progress.Event{Message: "injected"})

	fresh, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, fresh.Status)
	assert.Empty(t, fresh.Events)
}

func TestListJobs(t *testing.T) {
	m := NewManager()
	var ids []string
	for i := 0; i < 25; i++ {
		created, _ := m.CreateJob(Request{URL: "https://example.com/p"})
		ids = append(ids, created.ID)
	}

	testCases := []struct {
		name          string
		page          int
		pageSize      int
		expectedLen   int
		expectedSize  int
		expectedPages int
	}{
		{"first page", 1, 10, 10, 10, 3},
		{"last page", 3, 10, 5, 10, 3},
		{"past the end", 4, 10, 0, 10, 3},
		{"invalid values use defaults", 0, 0, 10, DefaultPageSize, 3},
		{"oversized page size", 1, 500, 10, DefaultPageSize, 3},
		{"single page", 1, 100, 25, 100, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := m.ListJobs(tc.page, tc.pageSize)
			assert.Len(t, resp.Jobs, tc.expectedLen)
			assert.Equal(t, tc.expectedSize, resp.PageSize)
			assert.Equal(t, 25, resp.TotalJobs)
			assert.Equal(t, tc.expectedPages, resp.TotalPages)
		})
	}

	all := m.ListJobs(1, 100)
	for i := 1; i < len(all.Jobs); i++ {
		assert.False(t, all.Jobs[i].StartTime.Before(all.Jobs[i-1].StartTime))
	}
	assert.ElementsMatch(t, ids, jobIDs(all.Jobs))
}

func jobIDs(jobs []*Status) []string {
	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	return ids
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()
	created, _ := m.CreateJob(Request{URL: "https://example.com/p"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.RecordEvent(created.ID, progress.Event{Progress: float64(i)})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = m.GetJob(created.ID)
			_ = m.ListJobs(1, 10)
		}()
	}
	wg.Wait()

	final, err := m.GetJob(created.ID)
	require.NoError(t, err)
	assert.Len(t, final.Events, 50)
}
