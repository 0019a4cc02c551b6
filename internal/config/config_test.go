package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig

	assert.Equal(t, 33, cfg.Display.RefreshIntervalMs)
	assert.False(t, cfg.Input.SwapAltMeta)
	assert.Equal(t, "ctrl+alt", cfg.Input.GrabHotkeyModifier)
	assert.Equal(t, "g", cfg.Input.GrabHotkeyKey)
	assert.Equal(t, 3000, cfg.Clipboard.RequestTimeoutMs)
	assert.Equal(t, 500, cfg.Clipboard.PollIntervalMs)
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{
		Display:   DisplayConfig{RefreshIntervalMs: 16},
		Clipboard: ClipboardConfig{RequestTimeoutMs: 1500, PollIntervalMs: 250},
	}

	assert.Equal(t, 16*time.Millisecond, cfg.Display.RefreshInterval())
	assert.Equal(t, 1500*time.Millisecond, cfg.Clipboard.RequestTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.Clipboard.PollInterval())
}

func TestGetReturnsDefaultsWhenUninitialized(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()

	cfg = nil
	got := Get()
	assert.Equal(t, &DefaultConfig, got)
}

func TestSetOverridesConfig(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()

	custom := &Config{
		Input: InputConfig{SwapAltMeta: true},
	}
	Set(custom)

	assert.Same(t, custom, Get())
	assert.True(t, Get().Input.SwapAltMeta)
}
