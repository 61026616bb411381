package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// ErrSinkClosed is returned when audio is submitted to a sink that is not open.
var ErrSinkClosed = errors.New("audio sink is not open")

// ErrSinkBusy is returned when the process-wide speaker is already held by another sink.
var ErrSinkBusy = errors.New("audio output is already in use")

// Sink is an audio output device. Play must return without waiting for the audio to finish; streams submitted
// while others are still sounding are mixed by the sink.
type Sink interface {
	Open(format beep.Format) error
	Play(s beep.Streamer) error
	Close() error
}

// the speaker package drives a single global device
var speakerOwner struct {
	sync.Mutex
	sink *SpeakerSink
}

// SpeakerSink plays audio through the default output device.
type SpeakerSink struct {
	// Latency is the length of the device buffer. Shorter buffers reduce the delay between a click being
	// submitted and being heard.
	Latency time.Duration

	lock sync.Mutex
	open bool
}

// NewSpeakerSink creates a sink for the default output device with the given buffer latency.
func NewSpeakerSink(latency time.Duration) *SpeakerSink {
	return &SpeakerSink{Latency: latency}
}

func (s *SpeakerSink) Open(format beep.Format) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.open {
		return nil
	}

	speakerOwner.Lock()
	defer speakerOwner.Unlock()
	if speakerOwner.sink != nil {
		return ErrSinkBusy
	}

	latency := s.Latency
	if latency <= 0 {
		latency = time.Second / 20
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(latency)); err != nil {
		return err
	}

	speakerOwner.sink = s
	s.open = true
	return nil
}

func (s *SpeakerSink) Play(st beep.Streamer) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.open {
		return ErrSinkClosed
	}
	speaker.Play(st)
	return nil
}

func (s *SpeakerSink) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.open {
		return nil
	}

	speaker.Clear()
	speaker.Close()

	speakerOwner.Lock()
	speakerOwner.sink = nil
	speakerOwner.Unlock()

	s.open = false
	return nil
}
