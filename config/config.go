package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sound"
	"gopkg.in/yaml.v3"
)

// GetMetronomeConfig returns the default configuration
func GetMetronomeConfig() MetronomeConfig {
	val, _ := NewMetronomeConfig()
	return val
}

// MetronomeConfig represents options that configure the global behavior of the program
type MetronomeConfig struct {
	// Tempo is the starting tempo in beats per minute
	Tempo float64 `yaml:"tempo"`

	// The allowed tempo range
	MinTempo float64 `yaml:"min_tempo"`
	MaxTempo float64 `yaml:"max_tempo"`

	// Subdivision is "quarter" or "eighth"
	Subdivision string `yaml:"subdivision"`

	// Sound is "primary" or "secondary"
	Sound string `yaml:"sound"`

	// SoundDir holds primary.wav and secondary.wav. The built-in sounds are used when it is empty.
	SoundDir string `yaml:"sound_dir"`

	// Audio output
	SampleRate int           `yaml:"sample_rate"`
	Latency    time.Duration `yaml:"latency"`

	// Practice timer
	Timer TimerConfig `yaml:"timer"`

	LogLevel string `yaml:"log_level"`

	// LogFile receives log output while the console owns the terminal. Logs are discarded when it is empty.
	LogFile string `yaml:"log_file"`
}

// TimerConfig configures the practice countdown.
type TimerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Duration     time.Duration `yaml:"duration"`
	StopOnExpiry bool          `yaml:"stop_on_expiry"`
}

// Create a new MetronomeConfig object with reasonable defaults for real usage
func NewMetronomeConfig() (MetronomeConfig, error) {
	return MetronomeConfig{
		Tempo:       rhythm.DefaultTempo,
		MinTempo:    rhythm.MinTempo,
		MaxTempo:    rhythm.MaxTempo,
		Subdivision: rhythm.Quarter.String(),
		Sound:       sound.Primary.String(),
		SampleRate:  44100,
		Latency:     time.Second / 20,
		Timer: TimerConfig{
			Duration: 2*time.Minute + 30*time.Second,
		},
		LogLevel: "info",
	}, nil
}

// LoadFile reads a YAML file on top of the defaults. Keys missing from the file keep their default value.
func LoadFile(path string) (MetronomeConfig, error) {
	cfg, err := NewMetronomeConfig()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.WithStackTrace(fmt.Errorf("parsing %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithStackTrace(err)
	}
	return cfg, nil
}

// Validate checks that every option holds a usable value.
func (c MetronomeConfig) Validate() error {
	if c.MinTempo <= 0 || c.MaxTempo < c.MinTempo {
		return fmt.Errorf("invalid tempo range %v-%v", c.MinTempo, c.MaxTempo)
	}
	if err := rhythm.ValidateTempo(c.Tempo, c.MinTempo, c.MaxTempo); err != nil {
		return err
	}
	if _, err := rhythm.ParseSubdivision(c.Subdivision); err != nil {
		return err
	}
	if _, err := sound.ParseSelection(c.Sound); err != nil {
		return err
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Latency < 0 {
		return fmt.Errorf("invalid latency %v", c.Latency)
	}
	if c.Timer.Duration < 0 {
		return fmt.Errorf("invalid timer duration %v", c.Timer.Duration)
	}
	return nil
}

// GetSubdivision returns the configured subdivision, falling back to quarter notes.
func (c MetronomeConfig) GetSubdivision() rhythm.Subdivision {
	s, _ := rhythm.ParseSubdivision(c.Subdivision)
	return s
}

// GetSound returns the configured sound, falling back to the primary click.
func (c MetronomeConfig) GetSound() sound.Selection {
	s, _ := sound.ParseSelection(c.Sound)
	return s
}

// GetAssets returns where the click sounds are read from.
func (c MetronomeConfig) GetAssets() sound.AssetProvider {
	if c.SoundDir == "" {
		return sound.EmbeddedAssets()
	}
	return sound.DirAssets(c.SoundDir)
}
