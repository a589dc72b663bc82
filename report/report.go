// Package report aggregates fetch outcomes into per-kind summaries and
// persists an error log when any item failed.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guildgrab/guild-media-scraper/model"
)

// Report counts successes and failures across one kind's outcomes. When at
// least one item failed it overwrites logPath with a header and one reason
// line per failure, in the order outcomes were received; with zero failures
// no log is written and any stale log from a previous run is removed.
func Report(outcomes []model.FetchOutcome, kind string, logPath string, started time.Time) (model.Summary, error) {
	summary := model.Summary{Elapsed: time.Since(started)}

	var reasons []string
	for _, o := range outcomes {
		if o.OK() {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		reasons = append(reasons, o.Reason)
	}

	if summary.Failed == 0 {
		if err := os.Remove(logPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", logPath).Msg("Failed to remove stale error log")
		}
		return summary, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s download(s) failed:\n", summary.Failed, kind)
	for _, reason := range reasons {
		sb.WriteString(reason)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(logPath, []byte(sb.String()), 0644); err != nil {
		return summary, fmt.Errorf("failed to write %s error log: %w", kind, err)
	}

	log.Info().Str("path", logPath).Int("failed", summary.Failed).Msgf("Wrote %s error log", kind)
	return summary, nil
}
