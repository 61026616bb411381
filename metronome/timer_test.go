package metronome

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPracticeTimerCountdown(t *testing.T) {
	t.Parallel()

	p := NewPracticeTimer(2 * time.Second)

	changed, expired := p.Countdown(time.Second)
	assert.False(t, changed, "a disabled timer does not count")
	assert.False(t, expired)

	p.Enable(true)
	changed, expired = p.Countdown(time.Second)
	assert.True(t, changed)
	assert.False(t, expired)

	changed, expired = p.Countdown(time.Second)
	assert.True(t, changed)
	assert.True(t, expired)

	// never below zero
	changed, expired = p.Countdown(time.Second)
	assert.False(t, changed)
	assert.False(t, expired)
	assert.Equal(t, time.Duration(0), p.State().Remaining)

	p.Reset(-time.Second)
	assert.True(t, p.State().Expired())
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()

	testCases := map[time.Duration]string{
		150 * time.Second: "2:30",
		65 * time.Second:  "1:05",
		9 * time.Second:   "0:09",
		0:                 "0:00",
		-time.Second:      "0:00",
		61 * time.Minute:  "61:00",
	}
	for d, expected := range testCases {
		assert.Equal(t, expected, FormatRemaining(d))
	}
}
