package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guildgrab/guild-media-scraper/acquire"
	"github.com/guildgrab/guild-media-scraper/common"
	"github.com/guildgrab/guild-media-scraper/config"
	"github.com/guildgrab/guild-media-scraper/pipeline"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "guild-media-scraper",
		Short: "Download a guild's emoji and sticker media from its lookup manifest",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to load configuration")
			}
			cfg.RunID = common.GenerateRunID()

			if err := cfg.Validate(); err != nil {
				log.Fatal().Err(err).Msg("Invalid configuration")
			}

			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			run(*cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.String("guild", "", "Guild invite code to scrape")
	flags.String("output", "output", "Root directory for per-guild output")
	flags.String("manifest", "", "Path to an already-acquired manifest document (default: <output>/<guild>/response.json)")
	flags.Int("concurrency", 5, "Maximum simultaneous downloads")
	flags.Bool("verbose", false, "Enable debug logging")

	for _, name := range []string{"guild", "output", "manifest", "concurrency", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatal().Err(err).Msgf("Failed to bind flag %s", name)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

// run executes one scrape and exits non-zero when any item failed.
func run(cfg common.ScraperConfig) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manifestPath := cfg.ManifestFile
	if manifestPath == "" {
		manifestPath = filepath.Join(cfg.OutputRoot, cfg.Guild, "response.json")
	}

	p := &pipeline.Pipeline{
		Cfg:      cfg,
		Acquirer: &acquire.FileAcquirer{Path: manifestPath},
	}

	result, err := p.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Scrape failed")
	}

	if result.Emoji.Failed > 0 || result.Sticker.Failed > 0 {
		os.Exit(1)
	}
}
