// Package playbacktest provides an in-memory audio sink for tests.
package playbacktest

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/robmorgan/metronome/playback"
)

// Sink records what would have been played on a real device.
type Sink struct {
	lock    sync.Mutex
	open    bool
	opens   int
	closes  int
	plays   int
	format  beep.Format
	openErr error
	playErr error
	hold    chan struct{}

	// Played receives a value for every successful Play when non-nil. Sends never block.
	Played chan struct{}
}

var _ playback.Sink = (*Sink)(nil)

// NewSink returns a sink whose Played channel can buffer size notifications.
func NewSink(size int) *Sink {
	return &Sink{Played: make(chan struct{}, size)}
}

// FailOpen makes the next calls to Open return err.
func (s *Sink) FailOpen(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.openErr = err
}

// FailPlay makes calls to Play return err.
func (s *Sink) FailPlay(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.playErr = err
}

// HoldClose makes Close wait until release is closed.
func (s *Sink) HoldClose(release chan struct{}) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.hold = release
}

func (s *Sink) Open(format beep.Format) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.open = true
	s.opens++
	s.format = format
	return nil
}

func (s *Sink) Play(st beep.Streamer) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.open {
		return playback.ErrSinkClosed
	}
	if s.playErr != nil {
		return s.playErr
	}
	s.plays++
	if s.Played != nil {
		select {
		case s.Played <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *Sink) Close() error {
	s.lock.Lock()
	hold := s.hold
	s.lock.Unlock()
	if hold != nil {
		<-hold
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.open = false
	s.closes++
	return nil
}

// IsOpen reports whether the sink is open.
func (s *Sink) IsOpen() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.open
}

// Counts returns how many times Open, Play and Close succeeded.
func (s *Sink) Counts() (opens, plays, closes int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.opens, s.plays, s.closes
}

// Format returns the format the sink was last opened with.
func (s *Sink) Format() beep.Format {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.format
}
