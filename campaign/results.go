package campaign

import (
	"fmt"
	"sync"
	"time"

	"github.com/signalsfoundry/nr-trace-campaign/model"
)

// TrialStatus summarises how one trial ended.
type TrialStatus int

const (
	// TrialCompleted means the engine ran and every expected trace
	// file was collected.
	TrialCompleted TrialStatus = iota
	// TrialIncomplete means the engine ran but at least one expected
	// trace file was missing.
	TrialIncomplete
	// TrialFailed means the engine (or trial configuration) failed.
	TrialFailed
)

func (s TrialStatus) String() string {
	switch s {
	case TrialCompleted:
		return "completed"
	case TrialIncomplete:
		return "incomplete"
	case TrialFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TrialResult records the collection outcome of one trial. It is
// immutable once recorded in the store.
type TrialResult struct {
	Spec      model.RunSpec
	Collected []string
	Missing   []string
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

// Status derives the trial status from the recorded fields.
func (r TrialResult) Status() TrialStatus {
	switch {
	case r.Err != nil:
		return TrialFailed
	case len(r.Missing) > 0:
		return TrialIncomplete
	default:
		return TrialCompleted
	}
}

// Event is emitted to subscribers when a trial result is recorded.
type Event struct {
	Result TrialResult
}

// ResultStore is the in-memory, thread-safe campaign result map. It is
// built incrementally by the orchestrator; a trial's entry is written
// exactly once, after its collection step completes.
type ResultStore struct {
	mu      sync.RWMutex
	results map[model.RunSpec]TrialResult
	order   []model.RunSpec

	subs []func(Event)
}

// NewResultStore constructs an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[model.RunSpec]TrialResult),
	}
}

// Record stores a trial result. Recording the same RunSpec twice is an
// error: results are never mutated after collection.
func (s *ResultStore) Record(res TrialResult) error {
	s.mu.Lock()
	if _, exists := s.results[res.Spec]; exists {
		s.mu.Unlock()
		return fmt.Errorf("trial %s already recorded", res.Spec.DirName())
	}
	s.results[res.Spec] = res
	s.order = append(s.order, res.Spec)
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Result: res})
	}
	return nil
}

// Get returns the result for a RunSpec, if recorded.
func (s *ResultStore) Get(spec model.RunSpec) (TrialResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[spec]
	return res, ok
}

// All returns the recorded results in recording order.
func (s *ResultStore) All() []TrialResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TrialResult, 0, len(s.order))
	for _, spec := range s.order {
		out = append(out, s.results[spec])
	}
	return out
}

// Subscribe registers fn to be called after every recorded result.
// Subscriptions must happen before Run starts recording.
func (s *ResultStore) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Summary counts results by status.
func (s *ResultStore) Summary() (completed, incomplete, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, res := range s.results {
		switch res.Status() {
		case TrialCompleted:
			completed++
		case TrialIncomplete:
			incomplete++
		case TrialFailed:
			failed++
		}
	}
	return completed, incomplete, failed
}
