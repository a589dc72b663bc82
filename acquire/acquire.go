// Package acquire obtains the guild's media manifest document. The
// browser-automation collaborator that captures it from the lookup service
// lives outside this repository; it persists the JSON document to disk and
// this package waits for it with a bounded timeout.
package acquire

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Acquirer produces the raw manifest JSON for one run.
type Acquirer interface {
	Acquire(ctx context.Context) ([]byte, error)
}

const (
	defaultWaitTimeout  = 60 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// FileAcquirer reads the manifest document persisted at Path, polling
// until the file appears. The wait is one-shot and bounded: if the
// collaborator has not produced the document within WaitTimeout the
// acquisition fails rather than blocking the run open-endedly.
type FileAcquirer struct {
	Path         string
	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// Acquire returns the manifest bytes, waiting for the file if necessary.
func (f *FileAcquirer) Acquire(ctx context.Context) ([]byte, error) {
	timeout := f.WaitTimeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	interval := f.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		data, err := os.ReadFile(f.Path)
		if err == nil {
			log.Debug().Str("path", f.Path).Int("bytes", len(data)).Msg("Manifest document acquired")
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read manifest document: %w", err)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("manifest document %s did not appear within %s", f.Path, timeout)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("manifest acquisition cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
