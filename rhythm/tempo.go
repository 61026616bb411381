package rhythm

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultTempo is the tempo a new metronome starts at.
	DefaultTempo = 120.0

	// MinTempo and MaxTempo bound the tempo when no other range is configured.
	MinTempo = 20.0
	MaxTempo = 400.0
)

// Subdivision is the number of audible events per beat.
type Subdivision int

const (
	Quarter Subdivision = iota
	Eighth
)

// Factor returns how many clicks sound per beat.
func (s Subdivision) Factor() int {
	if s == Eighth {
		return 2
	}
	return 1
}

// Valid reports whether s is a known subdivision.
func (s Subdivision) Valid() bool {
	return s == Quarter || s == Eighth
}

// Toggle switches between quarter and eighth notes.
func (s Subdivision) Toggle() Subdivision {
	if s == Eighth {
		return Quarter
	}
	return Eighth
}

func (s Subdivision) String() string {
	switch s {
	case Quarter:
		return "quarter"
	case Eighth:
		return "eighth"
	default:
		return fmt.Sprintf("subdivision(%d)", int(s))
	}
}

// ParseSubdivision converts a name such as "quarter" or "eighth" into a Subdivision.
func ParseSubdivision(name string) (Subdivision, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quarter", "1/4", "4":
		return Quarter, nil
	case "eighth", "1/8", "8":
		return Eighth, nil
	}
	return Quarter, fmt.Errorf("unknown subdivision %q", name)
}

// InvalidTempoError is returned when a tempo is not a finite value within the allowed range.
type InvalidTempoError struct {
	Tempo float64
	Min   float64
	Max   float64
}

func (e *InvalidTempoError) Error() string {
	return fmt.Sprintf("invalid tempo %v bpm: must be between %v and %v", e.Tempo, e.Min, e.Max)
}

// ValidateTempo checks that bpm is positive, finite and within [min, max].
func ValidateTempo(bpm, min, max float64) error {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 || bpm < min || bpm > max {
		return &InvalidTempoError{Tempo: bpm, Min: min, Max: max}
	}
	return nil
}

// Interval returns the time between two clicks at the given tempo and subdivision.
func Interval(bpm float64, subdivision Subdivision) time.Duration {
	return time.Duration(math.Round(intervalNanos(bpm, subdivision)))
}

// beatsToNanos calculates nanoseconds for a number of beats at the given tempo.
func beatsToNanos(beats float64, bpm float64) float64 {
	return float64(time.Minute) / bpm * beats
}

func intervalNanos(bpm float64, subdivision Subdivision) float64 {
	return beatsToNanos(1, bpm) / float64(subdivision.Factor())
}
