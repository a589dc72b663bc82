package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/guildgrab/guild-media-scraper/model"
)

// Task fetches one record and returns its terminal outcome.
type Task[T any] func(ctx context.Context, item T) model.FetchOutcome

// Run dispatches one goroutine per item, gated by a weighted semaphore so
// at most concurrencyLimit tasks are active at once. The gate is released
// only after a task fully completes, disk write included. Every item yields
// exactly one outcome: panics inside a task are recovered and converted to
// a failure, and a cancelled context fails the remaining items fast instead
// of leaking them. Outcomes are returned in input order; completion order
// is unspecified.
func Run[T any](ctx context.Context, items []T, concurrencyLimit int, name func(T) (string, string), task Task[T]) []model.FetchOutcome {
	if concurrencyLimit < 1 {
		concurrencyLimit = 1
	}

	sem := semaphore.NewWeighted(int64(concurrencyLimit))

	type indexed struct {
		index   int
		outcome model.FetchOutcome
	}
	results := make(chan indexed, len(items))

	for i, item := range items {
		go func(index int, item T) {
			itemName, remoteID := name(item)

			defer func() {
				if r := recover(); r != nil {
					log.Error().Msgf("Recovered from panic while fetching item: %s, error: %v", itemName, r)
					results <- indexed{index, model.Failed(itemName, remoteID, model.FailureTransport,
						fmt.Sprintf("%s (%s): panic: %v", itemName, remoteID, r))}
				}
			}()

			if err := sem.Acquire(ctx, 1); err != nil {
				results <- indexed{index, model.Failed(itemName, remoteID, model.FailureTransport,
					fmt.Sprintf("%s (%s): run cancelled before fetch: %v", itemName, remoteID, err))}
				return
			}
			defer sem.Release(1)

			results <- indexed{index, task(ctx, item)}
		}(i, item)
	}

	outcomes := make([]model.FetchOutcome, len(items))
	for range items {
		r := <-results
		outcomes[r.index] = r.outcome
	}
	return outcomes
}
