package playback_test

import (
	"errors"
	"testing"

	"github.com/gopxl/beep"
	"github.com/robmorgan/metronome/playback"
	"github.com/robmorgan/metronome/playback/playbacktest"
	"github.com/robmorgan/metronome/sound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var format = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func clickBuffer(t *testing.T) *sound.Buffer {
	cs := sound.NewClickSource(sound.EmbeddedAssets(), format.SampleRate)
	buf, err := cs.Load(sound.Primary)
	require.NoError(t, err)
	return buf
}

func TestOpenIsLazyAndIdempotent(t *testing.T) {
	t.Parallel()

	sink := playbacktest.NewSink(8)
	engine := playback.NewEngine(sink, format)
	assert.False(t, engine.IsOpen())

	require.NoError(t, engine.Open())
	require.NoError(t, engine.Open())
	assert.True(t, engine.IsOpen())

	opens, _, _ := sink.Counts()
	assert.Equal(t, 1, opens)
	assert.Equal(t, format, sink.Format())
}

func TestPlayOverlappingClicks(t *testing.T) {
	t.Parallel()

	sink := playbacktest.NewSink(8)
	engine := playback.NewEngine(sink, format)
	require.NoError(t, engine.Open())

	buf := clickBuffer(t)
	require.NoError(t, engine.Play(buf))
	require.NoError(t, engine.Play(buf))

	_, plays, _ := sink.Counts()
	assert.Equal(t, 2, plays)
	assert.Equal(t, int64(2), engine.Plays())
}

func TestPlayOnClosedEngine(t *testing.T) {
	t.Parallel()

	engine := playback.NewEngine(playbacktest.NewSink(1), format)
	err := engine.Play(clickBuffer(t))

	var deviceErr *playback.DeviceError
	require.True(t, errors.As(err, &deviceErr))
	assert.ErrorIs(t, err, playback.ErrSinkClosed)
}

func TestPlayWithoutBuffer(t *testing.T) {
	t.Parallel()

	engine := playback.NewEngine(playbacktest.NewSink(1), format)
	require.NoError(t, engine.Open())
	require.Error(t, engine.Play(nil))
}

func TestDeviceErrors(t *testing.T) {
	t.Parallel()

	unplugged := errors.New("device unplugged")

	sink := playbacktest.NewSink(1)
	sink.FailOpen(unplugged)
	engine := playback.NewEngine(sink, format)

	err := engine.Open()
	var deviceErr *playback.DeviceError
	require.True(t, errors.As(err, &deviceErr))
	assert.Equal(t, "open", deviceErr.Op)
	assert.False(t, engine.IsOpen())

	sink.FailOpen(nil)
	require.NoError(t, engine.Open())
	sink.FailPlay(unplugged)

	err = engine.Play(clickBuffer(t))
	require.True(t, errors.As(err, &deviceErr))
	assert.Equal(t, "play", deviceErr.Op)
	assert.ErrorIs(t, err, unplugged)
	assert.Equal(t, int64(0), engine.Plays())
}

func TestSessionReleasesSink(t *testing.T) {
	t.Parallel()

	sink := playbacktest.NewSink(1)
	engine := playback.NewEngine(sink, format)

	failed := errors.New("boom")
	err := engine.Session(func() error {
		assert.True(t, sink.IsOpen())
		return failed
	})
	assert.Equal(t, failed, err)
	assert.False(t, sink.IsOpen())
	assert.False(t, engine.IsOpen())

	assert.Panics(t, func() {
		_ = engine.Session(func() error {
			panic("stuck")
		})
	})
	assert.False(t, sink.IsOpen())

	_, _, closes := sink.Counts()
	assert.Equal(t, 2, closes)
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	sink := playbacktest.NewSink(1)
	engine := playback.NewEngine(sink, format)
	require.NoError(t, engine.Close())
	require.NoError(t, engine.Open())
	require.NoError(t, engine.Close())
	require.NoError(t, engine.Close())

	_, _, closes := sink.Counts()
	assert.Equal(t, 1, closes)
}
