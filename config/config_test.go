package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.OutputRoot)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Empty(t, cfg.Guild)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GUILDGRAB_GUILD", "archlinux")
	t.Setenv("GUILDGRAB_CONCURRENCY", "9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "archlinux", cfg.Guild)
	assert.Equal(t, 9, cfg.Concurrency)
}
