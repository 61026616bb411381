package sound

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
)

// resampleQuality is passed to beep.Resample when an asset's rate differs from the output rate.
const resampleQuality = 4

// DecodeError is returned when a sound asset is missing or cannot be decoded.
type DecodeError struct {
	Sound Selection
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s sound: %v", e.Sound, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Buffer is a decoded click sound. Its samples are never modified after decoding.
type Buffer struct {
	sound Selection
	data  *beep.Buffer
}

// Sound returns the selection the buffer was decoded for.
func (b *Buffer) Sound() Selection {
	return b.sound
}

// Format returns the sample format of the decoded audio.
func (b *Buffer) Format() beep.Format {
	return b.data.Format()
}

// Len returns the number of samples in the buffer.
func (b *Buffer) Len() int {
	return b.data.Len()
}

// Duration returns how long the click sounds for.
func (b *Buffer) Duration() time.Duration {
	return b.data.Format().SampleRate.D(b.data.Len())
}

// Streamer returns a new cursor over the whole buffer. Cursors are independent, so the same buffer can be played
// several times at once.
func (b *Buffer) Streamer() beep.StreamSeeker {
	return b.data.Streamer(0, b.data.Len())
}

// ClickSource decodes the click sounds once and hands out the currently selected one.
type ClickSource struct {
	assets     AssetProvider
	sampleRate beep.SampleRate
	logger     *logrus.Logger

	// decodeLock serialises decoding so ActiveBuffer never waits for it
	decodeLock sync.Mutex

	lock     sync.RWMutex
	cache    map[Selection]*Buffer
	selected Selection
	active   *Buffer
}

// NewClickSource creates a ClickSource that decodes from assets and resamples to sampleRate.
func NewClickSource(assets AssetProvider, sampleRate beep.SampleRate) *ClickSource {
	return &ClickSource{
		assets:     assets,
		sampleRate: sampleRate,
		logger:     logger.GetProjectLogger(),
		cache:      make(map[Selection]*Buffer),
	}
}

// Load returns the decoded buffer for sel, decoding it on first use.
func (cs *ClickSource) Load(sel Selection) (*Buffer, error) {
	if !sel.Valid() {
		return nil, &DecodeError{Sound: sel, Err: errors.New("unknown sound")}
	}

	if buf := cs.cached(sel); buf != nil {
		return buf, nil
	}

	cs.decodeLock.Lock()
	defer cs.decodeLock.Unlock()

	// another caller may have finished decoding while we waited
	if buf := cs.cached(sel); buf != nil {
		return buf, nil
	}

	buf, err := cs.decode(sel)
	if err != nil {
		return nil, err
	}

	cs.lock.Lock()
	cs.cache[sel] = buf
	cs.lock.Unlock()

	cs.logger.WithFields(logrus.Fields{
		"sound":    sel.String(),
		"samples":  buf.Len(),
		"duration": buf.Duration(),
	}).Debug("Decoded click sound")

	return buf, nil
}

// Select loads sel and makes it the active sound. If loading fails the previous sound stays active.
func (cs *ClickSource) Select(sel Selection) error {
	buf, err := cs.Load(sel)
	if err != nil {
		return err
	}

	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.selected = sel
	cs.active = buf
	return nil
}

// Preload decodes every known sound so later selections never decode.
func (cs *ClickSource) Preload() error {
	for _, sel := range []Selection{Primary, Secondary} {
		if _, err := cs.Load(sel); err != nil {
			return err
		}
	}
	return nil
}

// ActiveBuffer returns the buffer of the selected sound, or nil if nothing has been selected yet.
func (cs *ClickSource) ActiveBuffer() *Buffer {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.active
}

// Selected returns the active selection.
func (cs *ClickSource) Selected() Selection {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.selected
}

func (cs *ClickSource) cached(sel Selection) *Buffer {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.cache[sel]
}

func (cs *ClickSource) decode(sel Selection) (*Buffer, error) {
	data, err := cs.assets.Asset(sel.String())
	if err != nil {
		return nil, &DecodeError{Sound: sel, Err: err}
	}

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Sound: sel, Err: err}
	}
	defer streamer.Close()

	if streamer.Len() == 0 {
		return nil, &DecodeError{Sound: sel, Err: errors.New("sound contains no samples")}
	}

	var src beep.Streamer = streamer
	outFormat := format
	if cs.sampleRate != 0 && format.SampleRate != cs.sampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, cs.sampleRate, streamer)
		outFormat.SampleRate = cs.sampleRate
	}

	pcm := beep.NewBuffer(outFormat)
	pcm.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, &DecodeError{Sound: sel, Err: err}
	}

	return &Buffer{sound: sel, data: pcm}, nil
}
