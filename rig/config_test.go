package rig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint32(16), cfg.TickIntervalMs)
	assert.True(t, cfg.ManualDetectionEnabled)
	assert.Equal(t, 2.0, cfg.ManualDetectionTolerancePx)
	assert.Equal(t, uint32(300), cfg.ManualOverrideWindowMs)
}

func TestLoadConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysPresentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.yaml")
	contents := "tickIntervalMs: 33\nmanualDetectionEnabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(33), cfg.TickIntervalMs)
	assert.False(t, cfg.ManualDetectionEnabled)
	// fields the file omits keep the default.
	assert.Equal(t, 2.0, cfg.ManualDetectionTolerancePx)
	assert.Equal(t, uint32(300), cfg.ManualOverrideWindowMs)
}

func TestDefaultSingletonIsMemoizedUntilReset(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	first := Default()
	second := Default()
	assert.Same(t, first, second)

	ResetForTest()
	third := Default()
	assert.NotSame(t, first, third)
}

func TestConfigureReplacesSingletonConfig(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	cfg := DefaultConfig()
	cfg.TickIntervalMs = 50
	Configure(cfg)
	assert.Equal(t, uint32(50), Default().cfg.TickIntervalMs)
}
