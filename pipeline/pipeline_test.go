package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgrab/guild-media-scraper/acquire"
	"github.com/guildgrab/guild-media-scraper/common"
	"github.com/guildgrab/guild-media-scraper/model"
	"github.com/guildgrab/guild-media-scraper/state"
)

type manifestDoc struct {
	Data struct {
		Emojis   []map[string]any `json:"emojis"`
		Stickers []map[string]any `json:"stickers"`
	} `json:"data"`
}

func writeManifest(t *testing.T, dir string, emojis, stickers int) string {
	t.Helper()
	var doc manifestDoc
	doc.Data.Emojis = make([]map[string]any, 0, emojis)
	doc.Data.Stickers = make([]map[string]any, 0, stickers)
	for i := 0; i < emojis; i++ {
		doc.Data.Emojis = append(doc.Data.Emojis, map[string]any{
			"name": fmt.Sprintf("emoji%d", i),
			"id":   fmt.Sprintf("e%d", i),
		})
	}
	for i := 0; i < stickers; i++ {
		doc.Data.Stickers = append(doc.Data.Stickers, map[string]any{
			"name": fmt.Sprintf("sticker%d", i),
			"id":   fmt.Sprintf("s%d", i),
		})
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func stickerPayload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newPipeline(t *testing.T, manifestPath string, emojiURL, stickerURL string) (*Pipeline, state.Layout) {
	t.Helper()
	cfg := common.DefaultScraperConfig()
	cfg.Guild = "testguild"
	cfg.OutputRoot = t.TempDir()
	cfg.RunID = common.GenerateRunID()

	p := &Pipeline{
		Cfg:            cfg,
		Acquirer:       &acquire.FileAcquirer{Path: manifestPath, WaitTimeout: time.Second},
		EmojiBaseURL:   emojiURL,
		StickerBaseURL: stickerURL,
	}
	return p, state.Layout{Root: cfg.OutputRoot, Guild: cfg.Guild}
}

func TestPipelineFailureIsolation(t *testing.T) {
	emojiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/e5") {
			// Simulate a transport fault for exactly one item.
			conn, _, _ := w.(http.Hijacker).Hijack()
			conn.Close()
			return
		}
		w.Write([]byte("emoji-bytes"))
	}))
	defer emojiServer.Close()

	stickerServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(stickerPayload(t))
	}))
	defer stickerServer.Close()

	manifestPath := writeManifest(t, t.TempDir(), 10, 2)
	p, layout := newPipeline(t, manifestPath, emojiServer.URL, stickerServer.URL)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, result.Emoji.Succeeded)
	assert.Equal(t, 1, result.Emoji.Failed)
	assert.Equal(t, 2, result.Sticker.Succeeded)
	assert.Zero(t, result.Sticker.Failed)

	// Nine emoji files on disk, none for the failed item.
	entries, err := os.ReadDir(layout.EmojiDir())
	require.NoError(t, err)
	assert.Len(t, entries, 9)

	// The error log holds a header plus exactly one failure line naming the item.
	data, err := os.ReadFile(layout.EmojiErrorLog())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1 emoji download(s) failed")
	assert.Contains(t, lines[1], "emoji5")
	assert.Contains(t, lines[1], "e5")

	// No sticker failures, so no sticker log.
	_, statErr := os.Stat(layout.StickerErrorLog())
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipelineAllSucceed(t *testing.T) {
	emojiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer emojiServer.Close()

	stickerServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(stickerPayload(t))
	}))
	defer stickerServer.Close()

	manifestPath := writeManifest(t, t.TempDir(), 3, 1)
	p, layout := newPipeline(t, manifestPath, emojiServer.URL, stickerServer.URL)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Emoji.Succeeded)
	assert.Equal(t, 1, result.Sticker.Succeeded)

	succeeded, failed := result.Run.Totals()
	assert.Equal(t, 4, succeeded)
	assert.Zero(t, failed)

	_, statErr := os.Stat(layout.EmojiErrorLog())
	assert.True(t, os.IsNotExist(statErr))

	stickers, err := os.ReadDir(layout.StickerDir())
	require.NoError(t, err)
	require.Len(t, stickers, 1)
	assert.Equal(t, "sticker0.png", stickers[0].Name())
}

func TestPipelineMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"data": {}}`), 0644))

	p, _ := newPipeline(t, manifestPath, "http://unused", "http://unused")
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMalformedManifest)
}

func TestPipelineMissingManifest(t *testing.T) {
	p, _ := newPipeline(t, filepath.Join(t.TempDir(), "absent.json"), "http://unused", "http://unused")
	p.Acquirer = &acquire.FileAcquirer{
		Path:         filepath.Join(t.TempDir(), "absent.json"),
		WaitTimeout:  100 * time.Millisecond,
		PollInterval: 20 * time.Millisecond,
	}

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest acquisition failed")
}
