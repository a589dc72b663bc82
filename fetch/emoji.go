package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/guildgrab/guild-media-scraper/model"
	"github.com/guildgrab/guild-media-scraper/names"
)

// DefaultEmojiBaseURL is the CDN endpoint emoji download URLs are built on.
const DefaultEmojiBaseURL = "https://cdn.discordapp.com/emojis"

// EmojiFetcher fetches one emoji per manifest record into OutputDir. The
// initial extension follows the record's animated flag; a 415 on an
// animated record triggers exactly one retry with the static extension,
// which covers manifest entries whose animated flag is wrong.
type EmojiFetcher struct {
	Client    *http.Client
	Registry  *names.Registry
	OutputDir string
	UserAgent string
	BaseURL   string
}

func (f *EmojiFetcher) baseURL() string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	return DefaultEmojiBaseURL
}

// Fetch downloads a single emoji record and writes it under a resolved
// collision-free file name, returning the item's terminal outcome.
func (f *EmojiFetcher) Fetch(ctx context.Context, rec model.EmojiRecord) model.FetchOutcome {
	ext := ".webp"
	if rec.Animated {
		ext = ".gif"
	}

	url := fmt.Sprintf("%s/%s%s", f.baseURL(), rec.RemoteID, ext)
	status, body, err := get(ctx, f.Client, url, f.UserAgent)
	if err != nil {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureTransport,
			fmt.Sprintf("%s (%s): request failed: %v (url: %s)", rec.Name, rec.RemoteID, err, url))
	}

	switch {
	case status == http.StatusOK:
		return f.write(rec, ext, body)
	case status == http.StatusUnsupportedMediaType && rec.Animated:
		// The flag lied; the asset is static.
		log.Debug().Str("emoji", rec.Name).Str("id", rec.RemoteID).Msg("Got 415 for animated emoji, retrying as static")
		return f.fallback(ctx, rec)
	default:
		return model.Failed(rec.Name, rec.RemoteID, model.FailureHTTP,
			fmt.Sprintf("%s (%s): bad status code %d (url: %s)", rec.Name, rec.RemoteID, status, url))
	}
}

// fallback reissues the request with the static extension after a 415 on
// the animated one. There is no further retry beyond this.
func (f *EmojiFetcher) fallback(ctx context.Context, rec model.EmojiRecord) model.FetchOutcome {
	url := fmt.Sprintf("%s/%s.webp", f.baseURL(), rec.RemoteID)
	status, body, err := get(ctx, f.Client, url, f.UserAgent)
	if err != nil {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureTransport,
			fmt.Sprintf("%s (%s): request failed after trying both .gif and .webp: %v (url: %s)",
				rec.Name, rec.RemoteID, err, url))
	}
	if status != http.StatusOK {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureHTTP,
			fmt.Sprintf("%s (%s): bad status code %d after trying both .gif and .webp (url: %s)",
				rec.Name, rec.RemoteID, status, url))
	}
	return f.write(rec, ".webp", body)
}

func (f *EmojiFetcher) write(rec model.EmojiRecord, ext string, body []byte) model.FetchOutcome {
	filename := f.Registry.Reserve(names.Sanitize(rec.Name), ext)
	path := filepath.Join(f.OutputDir, filename)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureWrite,
			fmt.Sprintf("%s (%s): failed to write %s: %v", rec.Name, rec.RemoteID, filename, err))
	}
	log.Debug().Str("file", filename).Msg("Emoji written")
	return model.Succeeded(rec.Name, rec.RemoteID)
}
