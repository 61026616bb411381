package rhythm

import (
	"math"
	"time"
)

// segment is a stretch of the timeline where tempo and subdivision are constant.
type segment struct {
	tempo       float64
	subdivision Subdivision
	nanos       float64
}

func newSegment(bpm float64, subdivision Subdivision) segment {
	return segment{tempo: bpm, subdivision: subdivision, nanos: intervalNanos(bpm, subdivision)}
}

// Clock computes the fire-times of a click stream. Fire-times are always derived from a fixed anchor as
// anchor + n*interval, never from the instant a previous click was handled, so latency in handling a click does
// not accumulate into the schedule.
//
// A Clock owns no goroutines or timers and is not safe for concurrent use.
type Clock struct {
	current segment
	pending *segment

	anchor time.Time
	n      int64

	ticks   int64
	beat    int64
	sub     int
	running bool
}

// NewClock creates a stopped clock for the given tempo and subdivision.
func NewClock(bpm float64, subdivision Subdivision) *Clock {
	return &Clock{current: newSegment(bpm, subdivision)}
}

// Start arms the clock so that the first click fires one interval after now.
func (c *Clock) Start(now time.Time) {
	c.applyPending()
	c.anchor = now
	c.n = 1
	c.ticks = 0
	c.beat = 0
	c.sub = 0
	c.running = true
}

// Stop disarms the clock. Any pending retime is applied immediately.
func (c *Clock) Stop() {
	c.applyPending()
	c.running = false
}

// Running reports whether the clock has been started.
func (c *Clock) Running() bool {
	return c.running
}

// Next returns the fire-time of the click that has not been consumed yet.
func (c *Clock) Next() time.Time {
	return c.anchor.Add(time.Duration(math.Round(float64(c.n) * c.current.nanos)))
}

// Interval returns the spacing currently in effect. A pending retime is not reflected until it takes effect.
func (c *Clock) Interval() time.Duration {
	return time.Duration(math.Round(c.current.nanos))
}

// Ticks returns the number of clicks consumed or skipped since Start.
func (c *Clock) Ticks() int64 {
	return c.ticks
}

// Tempo returns the most recently requested tempo, including a pending one.
func (c *Clock) Tempo() float64 {
	return c.target().tempo
}

// Subdivision returns the most recently requested subdivision, including a pending one.
func (c *Clock) Subdivision() Subdivision {
	return c.target().subdivision
}

// Pending reports whether a retime is waiting for the next boundary.
func (c *Clock) Pending() bool {
	return c.pending != nil
}

// Upcoming describes the click that will fire at Next.
func (c *Clock) Upcoming() Tick {
	return Tick{
		At:          c.Next(),
		Index:       c.ticks,
		Beat:        c.beat,
		Offbeat:     c.sub > 0,
		Tempo:       c.current.tempo,
		Subdivision: c.current.subdivision,
	}
}

// SetTempo changes the tempo. While running, the already scheduled fire-time is kept and the new interval starts
// from it.
func (c *Clock) SetTempo(bpm float64) {
	c.Retime(bpm, c.target().subdivision)
}

// SetSubdivision changes the subdivision, with the same prospective behaviour as SetTempo.
func (c *Clock) SetSubdivision(subdivision Subdivision) {
	c.Retime(c.target().tempo, subdivision)
}

// Retime changes tempo and subdivision together.
func (c *Clock) Retime(bpm float64, subdivision Subdivision) {
	next := newSegment(bpm, subdivision)
	if !c.running {
		c.current = next
		c.pending = nil
		return
	}
	if next == c.current {
		c.pending = nil
		return
	}
	c.pending = &next
}

// Consume marks the click at Next as handled and schedules the following one. now is the instant the click was
// handled; if it already lies beyond the following boundary the missed clicks are dropped so the clock never
// bursts to catch up. Consume returns the number of dropped clicks.
func (c *Clock) Consume(now time.Time) int {
	if c.pending != nil {
		// the retime boundary is the click being consumed
		c.anchor = c.Next()
		c.n = 0
		c.applyPending()
		if factor := c.current.subdivision.Factor(); c.sub >= factor {
			c.sub = factor - 1
		}
	}
	c.advance(1)
	c.n++

	next := c.Next()
	if next.After(now) {
		return 0
	}

	skipped := int64(float64(now.Sub(next))/c.current.nanos) + 1
	c.n += skipped
	for !c.Next().After(now) {
		c.n++
		skipped++
	}
	c.advance(skipped)
	return int(skipped)
}

func (c *Clock) advance(clicks int64) {
	factor := int64(c.current.subdivision.Factor())
	total := int64(c.sub) + clicks
	c.beat += total / factor
	c.sub = int(total % factor)
	c.ticks += clicks
}

func (c *Clock) applyPending() {
	if c.pending != nil {
		c.current = *c.pending
		c.pending = nil
	}
}

func (c *Clock) target() segment {
	if c.pending != nil {
		return *c.pending
	}
	return c.current
}
