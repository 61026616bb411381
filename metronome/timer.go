package metronome

import (
	"fmt"
	"time"
)

// TimerState describes the practice countdown.
type TimerState struct {
	Enabled   bool
	Duration  time.Duration
	Remaining time.Duration
}

// Expired reports whether the countdown has reached zero.
func (s TimerState) Expired() bool {
	return s.Remaining <= 0
}

// String renders the remaining time as m:ss.
func (s TimerState) String() string {
	return FormatRemaining(s.Remaining)
}

// PracticeTimer counts down while the metronome is running and the timer is enabled. It never goes below zero.
type PracticeTimer struct {
	enabled   bool
	duration  time.Duration
	remaining time.Duration
}

// NewPracticeTimer creates a disabled timer set to d.
func NewPracticeTimer(d time.Duration) *PracticeTimer {
	return &PracticeTimer{duration: d, remaining: d}
}

// Enable turns counting on or off without touching the remaining time.
func (p *PracticeTimer) Enable(enabled bool) {
	p.enabled = enabled
}

// Reset sets both the duration and the remaining time to d.
func (p *PracticeTimer) Reset(d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.duration = d
	p.remaining = d
}

// Countdown removes step from the remaining time. It reports whether anything changed and whether this call made
// the timer expire.
func (p *PracticeTimer) Countdown(step time.Duration) (changed, expired bool) {
	if !p.enabled || p.remaining <= 0 {
		return false, false
	}
	p.remaining -= step
	if p.remaining <= 0 {
		p.remaining = 0
		return true, true
	}
	return true, false
}

// State returns a copy of the timer.
func (p *PracticeTimer) State() TimerState {
	return TimerState{Enabled: p.enabled, Duration: p.duration, Remaining: p.remaining}
}

// FormatRemaining renders d as minutes and zero padded seconds, e.g. 2:05.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
