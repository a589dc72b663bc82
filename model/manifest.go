// Package model defines the data structures shared across the scraper:
// the parsed media manifest and the per-item fetch outcomes.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedManifest indicates the acquired document is missing the
// expected structure. This is fatal to a run; there is nothing to fetch.
var ErrMalformedManifest = errors.New("malformed manifest")

// EmojiRecord is one emoji entry from the guild manifest. RemoteID is the
// opaque identifier used to build the CDN download URL. Names are not
// guaranteed unique by the source.
type EmojiRecord struct {
	Name     string `json:"name"`
	RemoteID string `json:"id"`
	Animated bool   `json:"animated"`
}

// StickerRecord is one sticker entry. Whether the sticker is animated is
// only discoverable from the downloaded bytes.
type StickerRecord struct {
	Name     string `json:"name"`
	RemoteID string `json:"id"`
}

// MediaManifest is the root document for one guild. Immutable once parsed.
type MediaManifest struct {
	Emojis   []EmojiRecord
	Stickers []StickerRecord
}

// rawManifest mirrors the wire shape {data:{emojis:[...],stickers:[...]}}.
type rawManifest struct {
	Data *struct {
		Emojis   []rawRecord `json:"emojis"`
		Stickers []rawRecord `json:"stickers"`
	} `json:"data"`
}

type rawRecord struct {
	Name     *string `json:"name"`
	ID       *string `json:"id"`
	Animated bool    `json:"animated"`
}

// ParseManifest decodes the acquired JSON document into a MediaManifest.
// It fails if the data.emojis / data.stickers arrays are absent or a record
// is missing name or id. A missing animated flag defaults to false; no
// other validation is performed.
func ParseManifest(document []byte) (*MediaManifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(document, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}

	if raw.Data == nil {
		return nil, fmt.Errorf("%w: missing data object", ErrMalformedManifest)
	}
	if raw.Data.Emojis == nil {
		return nil, fmt.Errorf("%w: missing data.emojis array", ErrMalformedManifest)
	}
	if raw.Data.Stickers == nil {
		return nil, fmt.Errorf("%w: missing data.stickers array", ErrMalformedManifest)
	}

	manifest := &MediaManifest{
		Emojis:   make([]EmojiRecord, 0, len(raw.Data.Emojis)),
		Stickers: make([]StickerRecord, 0, len(raw.Data.Stickers)),
	}

	for i, r := range raw.Data.Emojis {
		if r.Name == nil || *r.Name == "" || r.ID == nil || *r.ID == "" {
			return nil, fmt.Errorf("%w: emoji record %d missing name or id", ErrMalformedManifest, i)
		}
		manifest.Emojis = append(manifest.Emojis, EmojiRecord{
			Name:     *r.Name,
			RemoteID: *r.ID,
			Animated: r.Animated,
		})
	}

	for i, r := range raw.Data.Stickers {
		if r.Name == nil || *r.Name == "" || r.ID == nil || *r.ID == "" {
			return nil, fmt.Errorf("%w: sticker record %d missing name or id", ErrMalformedManifest, i)
		}
		manifest.Stickers = append(manifest.Stickers, StickerRecord{
			Name:     *r.Name,
			RemoteID: *r.ID,
		})
	}

	return manifest, nil
}
