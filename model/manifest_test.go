package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	document := []byte(`{
		"data": {
			"emojis": [
				{"name": "blobwave", "id": "1001", "animated": true},
				{"name": "pepe", "id": "1002"}
			],
			"stickers": [
				{"name": "tux", "id": "2001"}
			]
		}
	}`)

	manifest, err := ParseManifest(document)
	require.NoError(t, err)

	require.Len(t, manifest.Emojis, 2)
	assert.Equal(t, "blobwave", manifest.Emojis[0].Name)
	assert.Equal(t, "1001", manifest.Emojis[0].RemoteID)
	assert.True(t, manifest.Emojis[0].Animated)

	// Missing animated flag defaults to false
	assert.False(t, manifest.Emojis[1].Animated)

	require.Len(t, manifest.Stickers, 1)
	assert.Equal(t, "tux", manifest.Stickers[0].Name)
	assert.Equal(t, "2001", manifest.Stickers[0].RemoteID)
}

func TestParseManifestEmptyArrays(t *testing.T) {
	manifest, err := ParseManifest([]byte(`{"data": {"emojis": [], "stickers": []}}`))
	require.NoError(t, err)
	assert.Empty(t, manifest.Emojis)
	assert.Empty(t, manifest.Stickers)
}

func TestParseManifestMalformed(t *testing.T) {
	tests := []struct {
		name     string
		document string
	}{
		{"not json", `{{{`},
		{"missing data", `{"other": 1}`},
		{"missing emojis array", `{"data": {"stickers": []}}`},
		{"missing stickers array", `{"data": {"emojis": []}}`},
		{"emoji missing name", `{"data": {"emojis": [{"id": "1"}], "stickers": []}}`},
		{"emoji missing id", `{"data": {"emojis": [{"name": "x"}], "stickers": []}}`},
		{"emoji empty name", `{"data": {"emojis": [{"name": "", "id": "1"}], "stickers": []}}`},
		{"sticker missing id", `{"data": {"emojis": [], "stickers": [{"name": "x"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.document))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedManifest)
		})
	}
}

func TestFetchOutcomeKinds(t *testing.T) {
	ok := Succeeded("blob", "1001")
	assert.True(t, ok.OK())
	assert.Equal(t, FailureNone, ok.Kind)

	failed := Failed("blob", "1001", FailureHTTP, "bad status code 404")
	assert.False(t, failed.OK())
	assert.Equal(t, FailureHTTP, failed.Kind)
	assert.Equal(t, "bad status code 404", failed.Reason)

	assert.Equal(t, "http", FailureHTTP.String())
	assert.Equal(t, "transport", FailureTransport.String())
	assert.Equal(t, "none", FailureNone.String())
}
