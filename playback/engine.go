package playback

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/sound"
	"github.com/sirupsen/logrus"
)

// DeviceError is returned when the audio output cannot be opened or stops accepting audio.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Engine turns click buffers into sound on a single output sink. The sink is opened lazily and held until Close.
type Engine struct {
	sink   Sink
	format beep.Format
	logger *logrus.Logger

	lock  sync.Mutex
	open  bool
	plays int64
}

// NewEngine creates an engine that will open sink with format when first needed.
func NewEngine(sink Sink, format beep.Format) *Engine {
	return &Engine{
		sink:   sink,
		format: format,
		logger: logger.GetProjectLogger(),
	}
}

// Format returns the format the sink is opened with.
func (e *Engine) Format() beep.Format {
	return e.format
}

// Open acquires the output sink. Calling Open on an open engine does nothing.
func (e *Engine) Open() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.open {
		return nil
	}

	if err := e.sink.Open(e.format); err != nil {
		return &DeviceError{Op: "open", Err: err}
	}
	e.open = true

	e.logger.WithFields(logrus.Fields{
		"sample_rate": int(e.format.SampleRate),
		"channels":    e.format.NumChannels,
	}).Info("Opened audio output")
	return nil
}

// IsOpen reports whether the sink is currently held.
func (e *Engine) IsOpen() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.open
}

// Play submits buf for immediate playback and returns without waiting for it to sound. A click that is still
// sounding keeps playing alongside the new one. Failures are returned as *DeviceError and never retried.
func (e *Engine) Play(buf *sound.Buffer) error {
	if buf == nil {
		return errors.New("no click sound loaded")
	}

	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.open {
		return &DeviceError{Op: "play", Err: ErrSinkClosed}
	}

	if err := e.sink.Play(buf.Streamer()); err != nil {
		return &DeviceError{Op: "play", Err: err}
	}
	atomic.AddInt64(&e.plays, 1)
	return nil
}

// Plays returns how many clicks have been submitted successfully.
func (e *Engine) Plays() int64 {
	return atomic.LoadInt64(&e.plays)
}

// Close releases the sink. Closing a closed engine does nothing.
func (e *Engine) Close() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.open {
		return nil
	}

	e.open = false
	if err := e.sink.Close(); err != nil {
		return &DeviceError{Op: "close", Err: err}
	}
	e.logger.Info("Closed audio output")
	return nil
}

// Session opens the sink, runs fn and closes the sink again on every exit path, including a panic in fn. An error
// from fn takes precedence over one from closing.
func (e *Engine) Session(fn func() error) (err error) {
	if err := e.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn()
}
