package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/guildgrab/guild-media-scraper/model"
	"github.com/guildgrab/guild-media-scraper/names"
	"github.com/guildgrab/guild-media-scraper/transcode"
)

// DefaultStickerBaseURL is the media proxy endpoint sticker download URLs
// are built on.
const DefaultStickerBaseURL = "https://media.discordapp.net/stickers"

// StickerFetcher fetches one sticker per manifest record into OutputDir.
// Whether a sticker is animated is discovered from the downloaded bytes:
// multi-frame payloads are transcoded to a looping GIF, single frames to a
// still PNG. Once bytes are in hand the strategy only ever degrades toward
// a simpler output format; it never turns a retrieved asset into a loss.
// Undecodable payloads are written verbatim under a .png name, so the file
// extension may overclaim the format in that case (data preservation wins
// over strict correctness here).
type StickerFetcher struct {
	Client    *http.Client
	Registry  *names.Registry
	OutputDir string
	UserAgent string
	BaseURL   string
}

func (f *StickerFetcher) baseURL() string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	return DefaultStickerBaseURL
}

// Fetch downloads a single sticker record, normalizes its format and
// writes the result, returning the item's terminal outcome. Only a failed
// network fetch or a failed disk write terminates as a failure.
func (f *StickerFetcher) Fetch(ctx context.Context, rec model.StickerRecord) model.FetchOutcome {
	base := names.Sanitize(rec.Name)

	url := fmt.Sprintf("%s/%s.png", f.baseURL(), rec.RemoteID)
	status, body, err := get(ctx, f.Client, url, f.UserAgent)
	if err != nil {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureTransport,
			fmt.Sprintf("%s (%s): request failed: %v (url: %s)", rec.Name, rec.RemoteID, err, url))
	}
	if status != http.StatusOK {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureHTTP,
			fmt.Sprintf("%s (%s): bad status code %d (url: %s)", rec.Name, rec.RemoteID, status, url))
	}

	anim, err := transcode.Decode(body)
	if err != nil {
		// Last resort: keep the raw bytes rather than losing the asset.
		log.Warn().Str("sticker", rec.Name).Err(err).Msg("Sticker payload not decodable, writing raw bytes")
		return f.write(rec, base, ".png", body)
	}

	if !anim.Animated() {
		var buf bytes.Buffer
		if err := transcode.EncodeStill(&buf, anim.Frames[0]); err != nil {
			log.Warn().Str("sticker", rec.Name).Err(err).Msg("Still encode failed, writing raw bytes")
			return f.write(rec, base, ".png", body)
		}
		return f.write(rec, base, ".png", buf.Bytes())
	}

	var buf bytes.Buffer
	if err := transcode.EncodeGIF(&buf, anim); err != nil {
		// Degrade to the first frame as a still.
		log.Warn().Str("sticker", rec.Name).Err(err).Msg("Animated encode failed, degrading to still frame")
		buf.Reset()
		if err := transcode.EncodeStill(&buf, anim.Frames[0]); err != nil {
			return f.write(rec, base, ".png", body)
		}
		return f.write(rec, base, ".png", buf.Bytes())
	}
	return f.write(rec, base, ".gif", buf.Bytes())
}

func (f *StickerFetcher) write(rec model.StickerRecord, base, ext string, data []byte) model.FetchOutcome {
	filename := f.Registry.Reserve(base, ext)
	path := filepath.Join(f.OutputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.Failed(rec.Name, rec.RemoteID, model.FailureWrite,
			fmt.Sprintf("%s (%s): failed to write %s: %v", rec.Name, rec.RemoteID, filename, err))
	}
	log.Debug().Str("file", filename).Msg("Sticker written")
	return model.Succeeded(rec.Name, rec.RemoteID)
}
