package progress

import (
	"encoding/json"
	"sync"
	"time"
)

// Stage represents the current stage of an extraction
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageFetching     Stage = "fetching"
	StageExtracting   Stage = "extracting"
	StageWriting      Stage = "writing"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Overall progress reached when each stage starts
const (
	PercentFetching   = 10
	PercentExtracting = 50
	PercentWriting    = 80
	PercentComplete   = 100
)

// Event represents a progress event
type Event struct {
	Stage      Stage     `json:"stage"`
	Progress   float64   `json:"progress"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	TrackCount int       `json:"trackCount,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ProgressTracker records the stage of one extraction and fans events out
// to listeners.
type ProgressTracker struct {
	mu         sync.RWMutex
	stage      Stage
	progress   float64
	message    string
	trackCount int
	err        error
	history    []Event
	listeners  []func(Event)
}

// NewProgressTracker creates a new ProgressTracker instance
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageInitializing,
		listeners: make([]func(Event), 0),
	}
}

// AddListener adds a new progress event listener
func (pt *ProgressTracker) AddListener(listener func(Event)) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.listeners = append(pt.listeners, listener)
}

// UpdateProgress updates the progress and notifies all listeners
func (pt *ProgressTracker) UpdateProgress(stage Stage, progress float64, message string) {
	pt.mu.Lock()
	pt.stage = stage
	pt.progress = progress
	pt.message = message
	event := pt.eventLocked()
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// SetTrackCount records how many tracks the extraction produced
func (pt *ProgressTracker) SetTrackCount(count int) {
	pt.mu.Lock()
	pt.trackCount = count
	event := pt.eventLocked()
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// SetError sets an error state and notifies all listeners
func (pt *ProgressTracker) SetError(err error) {
	pt.mu.Lock()
	pt.stage = StageError
	pt.err = err
	pt.message = err.Error()
	event := pt.eventLocked()
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

func (pt *ProgressTracker) eventLocked() Event {
	event := Event{
		Stage:      pt.stage,
		Progress:   pt.progress,
		Message:    pt.message,
		Timestamp:  time.Now(),
		TrackCount: pt.trackCount,
	}
	if pt.err != nil {
		event.Error = pt.err.Error()
	}
	pt.history = append(pt.history, event)
	return event
}

// notifyListeners sends an event to all registered listeners
func (pt *ProgressTracker) notifyListeners(event Event) {
	pt.mu.RLock()
	listeners := append([]func(Event){}, pt.listeners...)
	pt.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// GetCurrentState returns the current progress state
func (pt *ProgressTracker) GetCurrentState() Event {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	event := Event{
		Stage:      pt.stage,
		Progress:   pt.progress,
		Message:    pt.message,
		Timestamp:  time.Now(),
		TrackCount: pt.trackCount,
	}
	if pt.err != nil {
		event.Error = pt.err.Error()
	}
	return event
}

// History returns every event emitted so far, oldest first
func (pt *ProgressTracker) History() []Event {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return append([]Event(nil), pt.history...)
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Event
func (e *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}
