// Package pipeline wires the full scraper run together: manifest
// acquisition, parsing, the per-kind fetch batches and the final report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guildgrab/guild-media-scraper/acquire"
	"github.com/guildgrab/guild-media-scraper/common"
	"github.com/guildgrab/guild-media-scraper/fetch"
	"github.com/guildgrab/guild-media-scraper/model"
	"github.com/guildgrab/guild-media-scraper/names"
	"github.com/guildgrab/guild-media-scraper/report"
	"github.com/guildgrab/guild-media-scraper/state"
)

// Pipeline runs one scrape for one guild. The base URLs default to the
// real CDN endpoints and exist as fields so tests can point the strategies
// at local servers.
type Pipeline struct {
	Cfg      common.ScraperConfig
	Acquirer acquire.Acquirer

	EmojiBaseURL   string
	StickerBaseURL string
}

// Result carries the per-kind summaries of a completed run.
type Result struct {
	Run     *state.RunState
	Emoji   model.Summary
	Sticker model.Summary
}

// Run executes the pipeline. Only manifest acquisition/parsing failures
// and output directory creation failures abort the run; every per-item
// fault is captured in that item's outcome.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	rs := state.NewRunState(p.Cfg.RunID, p.Cfg.Guild)
	log.Info().Str("guild", p.Cfg.Guild).Str("run_id", rs.RunID).Str("execution_id", rs.ExecutionID).Msg("Starting media scrape")

	layout := state.Layout{Root: p.Cfg.OutputRoot, Guild: p.Cfg.Guild}
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	document, err := p.Acquirer.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("manifest acquisition failed: %w", err)
	}

	manifest, err := model.ParseManifest(document)
	if err != nil {
		return nil, err
	}
	log.Info().Int("emojis", len(manifest.Emojis)).Int("stickers", len(manifest.Stickers)).Msgf("Manifest parsed, fetching with concurrency %d", p.Cfg.Concurrency)

	result := &Result{Run: rs}
	result.Emoji = p.runEmojiBatch(ctx, manifest.Emojis, layout)
	rs.RecordSummary("emoji", result.Emoji)

	result.Sticker = p.runStickerBatch(ctx, manifest.Stickers, layout)
	rs.RecordSummary("sticker", result.Sticker)

	succeeded, failed := rs.Totals()
	log.Info().Int("succeeded", succeeded).Int("failed", failed).Dur("elapsed", time.Since(rs.StartTime)).Msg("Scrape complete")
	return result, nil
}

func (p *Pipeline) runEmojiBatch(ctx context.Context, records []model.EmojiRecord, layout state.Layout) model.Summary {
	started := time.Now()

	client := fetch.NewClient(p.Cfg.Concurrency)
	defer fetch.Teardown(client)

	fetcher := &fetch.EmojiFetcher{
		Client:    client,
		Registry:  names.NewRegistry(),
		OutputDir: layout.EmojiDir(),
		UserAgent: p.Cfg.UserAgent,
		BaseURL:   p.EmojiBaseURL,
	}

	outcomes := fetch.Run(ctx, records, p.Cfg.Concurrency,
		func(r model.EmojiRecord) (string, string) { return r.Name, r.RemoteID },
		fetcher.Fetch)

	summary, err := report.Report(outcomes, "emoji", layout.EmojiErrorLog(), started)
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist emoji error log")
	}
	log.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Dur("elapsed", summary.Elapsed).Msg("Emoji batch finished")
	return summary
}

func (p *Pipeline) runStickerBatch(ctx context.Context, records []model.StickerRecord, layout state.Layout) model.Summary {
	started := time.Now()

	client := fetch.NewClient(p.Cfg.Concurrency)
	defer fetch.Teardown(client)

	fetcher := &fetch.StickerFetcher{
		Client:    client,
		Registry:  names.NewRegistry(),
		OutputDir: layout.StickerDir(),
		UserAgent: p.Cfg.UserAgent,
		BaseURL:   p.StickerBaseURL,
	}

	outcomes := fetch.Run(ctx, records, p.Cfg.Concurrency,
		func(r model.StickerRecord) (string, string) { return r.Name, r.RemoteID },
		fetcher.Fetch)

	summary, err := report.Report(outcomes, "sticker", layout.StickerErrorLog(), started)
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist sticker error log")
	}
	log.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Dur("elapsed", summary.Elapsed).Msg("Sticker batch finished")
	return summary
}
