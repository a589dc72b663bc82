package common

import (
	"fmt"
	"time"
)

// Configuration structure
type ScraperConfig struct {
	Guild        string // Guild invite code identifying the output directory
	OutputRoot   string // Root directory for per-guild output trees
	ManifestFile string // Override for the manifest document path (default: <output>/<guild>/response.json)
	Concurrency  int    // Maximum simultaneous active fetches
	UserAgent    string
	Verbose      bool
	RunID        string
}

// DefaultScraperConfig returns a configuration with sensible defaults.
func DefaultScraperConfig() ScraperConfig {
	return ScraperConfig{
		OutputRoot:  "output",
		Concurrency: 5,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate checks if the configuration is valid.
func (c *ScraperConfig) Validate() error {
	if c.Guild == "" {
		return fmt.Errorf("guild invite code must be provided")
	}

	if c.OutputRoot == "" {
		return fmt.Errorf("output root cannot be empty")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	return nil
}

// DefaultUserAgent identifies the scraper on CDN requests.
const DefaultUserAgent = "Mozilla/5.0 GuildMedia-Scraper/1.0"

// GenerateRunID generates a unique identifier based on the current timestamp.
// The identifier is formatted as a string in the "YYYYMMDDHHMMSS" format.
func GenerateRunID() string {
	// Get the current timestamp
	currentTime := time.Now()

	// Format the timestamp to a string (e.g., "20060102150405" for YYYYMMDDHHMMSS)
	runID := currentTime.Format("20060102150405")

	return runID
}
