package metronome

import (
	"errors"
	"time"

	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sound"
)

// ErrAlreadyRunning is returned by StartStrict when the metronome is already running.
var ErrAlreadyRunning = errors.New("metronome is already running")

// RunState is whether the metronome is clicking.
type RunState int

const (
	Stopped RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// State is a consistent copy of the controller's settings.
type State struct {
	Tempo       float64
	Subdivision rhythm.Subdivision
	Sound       sound.Selection
	RunState    RunState

	// Interval is the spacing currently in effect.
	Interval time.Duration

	// Next is the fire-time of the next click. It is zero while stopped.
	Next time.Time

	Timer TimerState
}

// Tick is delivered to the tick handler once for every click played.
type Tick struct {
	rhythm.Tick

	// Sound is the click that was played.
	Sound sound.Selection

	// PlayedAt is when the click was handed to the audio output.
	PlayedAt time.Time

	// Dropped counts clicks after this one that were skipped because the metronome fell behind.
	Dropped int
}

// Latency returns how late the click was submitted relative to its fire-time.
func (t Tick) Latency() time.Duration {
	return t.PlayedAt.Sub(t.At)
}
