// Package config loads scraper configuration from file and environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/guildgrab/guild-media-scraper/common"
)

// Load builds a ScraperConfig from an optional config file and environment
// overrides. A missing config file is fine; defaults apply. CLI flags are
// bound on top of this by the command layer.
func Load() (*common.ScraperConfig, error) {
	cfg := common.DefaultScraperConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("output", cfg.OutputRoot)
	viper.SetDefault("concurrency", cfg.Concurrency)
	viper.SetDefault("user_agent", cfg.UserAgent)

	// Environment variable overrides
	viper.SetEnvPrefix("GUILDGRAB")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg.Guild = viper.GetString("guild")
	cfg.OutputRoot = viper.GetString("output")
	cfg.ManifestFile = viper.GetString("manifest")
	cfg.Concurrency = viper.GetInt("concurrency")
	cfg.UserAgent = viper.GetString("user_agent")
	cfg.Verbose = viper.GetBool("verbose")

	return &cfg, nil
}
