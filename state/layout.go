// Package state manages the on-disk layout of a scraper run and the
// run-level bookkeeping shared across media kinds.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves every path a run touches under the per-guild output
// directory: output/<guild>/{emojis,stickers}, the persisted manifest
// document and the per-kind error logs.
type Layout struct {
	Root  string
	Guild string
}

// GuildDir is the run's output directory for one guild.
func (l Layout) GuildDir() string {
	return filepath.Join(l.Root, l.Guild)
}

// EmojiDir holds every successfully fetched emoji.
func (l Layout) EmojiDir() string {
	return filepath.Join(l.GuildDir(), "emojis")
}

// StickerDir holds every successfully fetched sticker.
func (l Layout) StickerDir() string {
	return filepath.Join(l.GuildDir(), "stickers")
}

// ManifestPath is where the manifest-acquisition collaborator persists the
// guild's JSON document.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.GuildDir(), "response.json")
}

// EmojiErrorLog is written only when at least one emoji failed.
func (l Layout) EmojiErrorLog() string {
	return filepath.Join(l.GuildDir(), "emoji_errors.log")
}

// StickerErrorLog is written only when at least one sticker failed.
func (l Layout) StickerErrorLog() string {
	return filepath.Join(l.GuildDir(), "sticker_errors.log")
}

// Ensure creates the output directory tree. Failure here is fatal to the
// run; there is nowhere to write results.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.EmojiDir(), l.StickerDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}
