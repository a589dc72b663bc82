package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guildgrab/guild-media-scraper/model"
)

// RunState tracks one pipeline invocation: the operator-visible run ID,
// a unique execution ID, the start time and the per-kind summaries as they
// complete. Mutations are mutex-guarded; concurrent batches may record
// summaries independently.
type RunState struct {
	mu sync.Mutex

	RunID       string
	ExecutionID string
	Guild       string
	StartTime   time.Time

	summaries map[string]model.Summary
}

// NewRunState starts tracking a run for the named guild.
func NewRunState(runID, guild string) *RunState {
	return &RunState{
		RunID:       runID,
		ExecutionID: uuid.New().String(),
		Guild:       guild,
		StartTime:   time.Now(),
		summaries:   make(map[string]model.Summary),
	}
}

// RecordSummary stores the finished summary for one media kind.
func (s *RunState) RecordSummary(kind string, summary model.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[kind] = summary
}

// Summary returns the recorded summary for a media kind, if present.
func (s *RunState) Summary(kind string) (model.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.summaries[kind]
	return summary, ok
}

// Totals sums succeeded and failed counts across all recorded kinds.
func (s *RunState) Totals() (succeeded, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, summary := range s.summaries {
		succeeded += summary.Succeeded
		failed += summary.Failed
	}
	return succeeded, failed
}
