package rhythm

import (
	"fmt"
	"time"
)

// Tick describes a single scheduled click.
type Tick struct {
	// At is the fire-time the click was scheduled for.
	At time.Time

	// Index counts clicks since the clock was started, starting at zero.
	Index int64

	// Beat counts whole beats since the clock was started, starting at zero.
	Beat int64

	// Offbeat is true for clicks that fall between two beats.
	Offbeat bool

	Tempo       float64
	Subdivision Subdivision
}

// IsDownBeat reports whether the click lands on a beat rather than between beats.
func (t Tick) IsDownBeat() bool {
	return !t.Offbeat
}

// Marker renders the tick position as "beat.sub", both counted from one.
func (t Tick) Marker() string {
	sub := 1
	if t.Offbeat {
		sub = 2
	}
	return fmt.Sprintf("%d.%d", t.Beat+1, sub)
}
