package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "metronome.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := GetMetronomeConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120.0, cfg.Tempo)
	assert.Equal(t, rhythm.Quarter, cfg.GetSubdivision())
	assert.Equal(t, sound.Primary, cfg.GetSound())
	assert.Equal(t, 150*time.Second, cfg.Timer.Duration)
	assert.False(t, cfg.Timer.Enabled)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
tempo: 96
subdivision: eighth
sound: quack
latency: 20ms
timer:
  enabled: true
  duration: 1m
  stop_on_expiry: true
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 96.0, cfg.Tempo)
	assert.Equal(t, rhythm.Eighth, cfg.GetSubdivision())
	assert.Equal(t, sound.Secondary, cfg.GetSound())
	assert.Equal(t, 20*time.Millisecond, cfg.Latency)
	assert.True(t, cfg.Timer.Enabled)
	assert.True(t, cfg.Timer.StopOnExpiry)
	assert.Equal(t, time.Minute, cfg.Timer.Duration)

	// untouched keys keep their defaults
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, rhythm.MaxTempo, cfg.MaxTempo)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []string{
		"tempo: 0",
		"tempo: 500",
		"subdivision: triplet",
		"sound: cowbell",
		"sample_rate: -1",
		"min_tempo: 300\nmax_tempo: 100",
		"tempo: [not, a, number]",
	}

	for _, contents := range testCases {
		_, err := LoadFile(writeConfig(t, contents))
		require.Error(t, err, contents)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
