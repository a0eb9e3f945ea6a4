package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Board.Seed)
	assert.True(t, cfg.Render.ShowSystemEdges)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NODULAR_SERVER_PORT", "9999")
	t.Setenv("NODULAR_LOGGING_LEVEL", "debug")
	t.Setenv("NODULAR_BOARD_SEED", "false")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Board.Seed)
}

func TestLoadFlagsBeatEnv(t *testing.T) {
	t.Setenv("NODULAR_SERVER_PORT", "9999")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("server.port", 8080, "")
	require.NoError(t, flags.Parse([]string{"--server.port=7777"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestRenderOptionsFromConfig(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	cfg.Render.ShowSystemEdges = false
	cfg.Render.PreviewLength = 42

	opts := cfg.RenderOptions()
	assert.False(t, opts.ShowSystemEdges)
	assert.Equal(t, 42, opts.PreviewLength)
}
