package metronome

import (
	"fmt"
	"sync"
	"time"

	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sound"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ClickSource hands out the decoded click to play.
type ClickSource interface {
	ActiveBuffer() *sound.Buffer
	Select(sel sound.Selection) error
}

// Player sends clicks to the audio output.
type Player interface {
	Open() error
	Play(buf *sound.Buffer) error
	Session(fn func() error) error
}

// TickHandler is called once for every click played.
type TickHandler func(Tick)

// ErrorHandler is called when the metronome stops itself because of an error.
type ErrorHandler func(error)

// TimerHandler is called whenever the practice timer changes.
type TimerHandler func(TimerState)

// Controller is the metronome state machine. All methods are safe for concurrent use and return without waiting
// for audio.
type Controller struct {
	cfg    config.MetronomeConfig
	clock  clock.WithTicker
	source ClickSource
	player Player
	logger *logrus.Logger

	// lifecycle serialises Start, Stop and Close
	lifecycle sync.Mutex
	// soundLock keeps the source selection and the recorded sound in step
	soundLock sync.Mutex

	handlerLock sync.RWMutex
	onTick      TickHandler
	onError     ErrorHandler
	onTimer     TimerHandler

	// lock guards everything below
	lock        sync.Mutex
	tempo       float64
	subdivision rhythm.Subdivision
	sound       sound.Selection
	state       RunState
	schedule    *rhythm.Clock
	timer       *PracticeTimer
	stop        chan struct{}
	done        chan struct{}

	notifier *notifier
}

// New creates a stopped controller with the tempo, subdivision, sound and practice timer from cfg. The configured
// sound is decoded before New returns.
func New(cfg config.MetronomeConfig, clk clock.WithTicker, source ClickSource, player Player) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	selected := cfg.GetSound()
	if err := source.Select(selected); err != nil {
		return nil, err
	}

	timer := NewPracticeTimer(cfg.Timer.Duration)
	timer.Enable(cfg.Timer.Enabled)

	c := &Controller{
		cfg:         cfg,
		clock:       clk,
		source:      source,
		player:      player,
		logger:      logger.GetProjectLogger(),
		tempo:       cfg.Tempo,
		subdivision: cfg.GetSubdivision(),
		sound:       selected,
		schedule:    rhythm.NewClock(cfg.Tempo, cfg.GetSubdivision()),
		timer:       timer,
	}
	c.notifier = newNotifier(c.dispatch)
	return c, nil
}

// OnTick registers the handler for tick notifications. It runs on its own goroutine and may be slow without
// affecting timing.
func (c *Controller) OnTick(fn TickHandler) {
	c.handlerLock.Lock()
	defer c.handlerLock.Unlock()
	c.onTick = fn
}

// OnError registers the handler for errors that stop the metronome while it runs.
func (c *Controller) OnError(fn ErrorHandler) {
	c.handlerLock.Lock()
	defer c.handlerLock.Unlock()
	c.onError = fn
}

// OnTimer registers the handler for practice timer updates.
func (c *Controller) OnTimer(fn TimerHandler) {
	c.handlerLock.Lock()
	defer c.handlerLock.Unlock()
	c.onTimer = fn
}

// Start begins clicking one interval from now. Starting a running metronome does nothing. If the audio output
// cannot be opened the metronome stays stopped and the *playback.DeviceError is returned.
func (c *Controller) Start() error {
	err := c.start()
	if err == ErrAlreadyRunning {
		return nil
	}
	return err
}

// StartStrict is like Start but returns ErrAlreadyRunning when the metronome is already running.
func (c *Controller) StartStrict() error {
	return c.start()
}

func (c *Controller) start() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.lock.Lock()
	running := c.state == Running
	prev := c.done
	c.lock.Unlock()
	if running {
		return ErrAlreadyRunning
	}

	// a loop that stopped itself may still be releasing the sink
	if prev != nil {
		<-prev
	}

	if err := c.player.Open(); err != nil {
		c.logger.WithError(err).Error("Could not start metronome")
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.clock.Now()
	c.schedule.Start(now)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.state = Running

	// both are armed before Start returns so the first fire-time can never be missed
	fire := c.clock.NewTimer(c.schedule.Next().Sub(now))
	second := c.clock.NewTicker(time.Second)
	go c.run(c.stop, c.done, fire, second)

	c.logger.WithFields(logrus.Fields{
		"tempo":       c.tempo,
		"subdivision": c.subdivision.String(),
		"sound":       c.sound.String(),
	}).Info("Metronome started")
	return nil
}

// Stop silences the metronome and releases the audio output. It returns once the timing loop has exited.
// Stopping a stopped metronome does nothing.
func (c *Controller) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.lock.Lock()
	done := c.done
	stopped := c.halt(c.stop)
	c.lock.Unlock()

	if done != nil {
		<-done
	}
	if stopped {
		c.logger.Info("Metronome stopped")
	}
}

// Toggle starts a stopped metronome and stops a running one.
func (c *Controller) Toggle() error {
	if c.Snapshot().RunState == Running {
		c.Stop()
		return nil
	}
	return c.Start()
}

// Close stops the metronome and delivers any pending notifications. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.Stop()
	c.notifier.close()
}

// SetTempo changes the tempo. While running, the click already scheduled keeps its fire-time and the new tempo
// applies from there on. Out of range values return *rhythm.InvalidTempoError and leave the tempo unchanged.
func (c *Controller) SetTempo(bpm float64) error {
	if err := rhythm.ValidateTempo(bpm, c.cfg.MinTempo, c.cfg.MaxTempo); err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.setTempo(bpm)
	return nil
}

// IncrementTempo raises the tempo by one beat per minute.
func (c *Controller) IncrementTempo() error {
	return c.nudgeTempo(1)
}

// DecrementTempo lowers the tempo by one beat per minute.
func (c *Controller) DecrementTempo() error {
	return c.nudgeTempo(-1)
}

func (c *Controller) nudgeTempo(delta float64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	bpm := c.tempo + delta
	if err := rhythm.ValidateTempo(bpm, c.cfg.MinTempo, c.cfg.MaxTempo); err != nil {
		return err
	}
	c.setTempo(bpm)
	return nil
}

// setTempo must be called with lock held
func (c *Controller) setTempo(bpm float64) {
	c.tempo = bpm
	c.schedule.SetTempo(bpm)
	c.logger.WithField("tempo", bpm).Debug("Tempo changed")
}

// SetSubdivision changes between quarter and eighth notes, prospectively like SetTempo.
func (c *Controller) SetSubdivision(s rhythm.Subdivision) error {
	if !s.Valid() {
		return fmt.Errorf("unknown subdivision %d", int(s))
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.subdivision = s
	c.schedule.SetSubdivision(s)
	c.logger.WithField("subdivision", s.String()).Debug("Subdivision changed")
	return nil
}

// SelectSound swaps the click sound. The next click uses the new sound. If it cannot be decoded the
// *sound.DecodeError is returned and the previous sound keeps playing.
func (c *Controller) SelectSound(s sound.Selection) error {
	c.soundLock.Lock()
	defer c.soundLock.Unlock()

	if err := c.source.Select(s); err != nil {
		c.logger.WithError(err).WithField("sound", s.String()).Warn("Could not select sound")
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.sound = s
	c.logger.WithField("sound", s.String()).Debug("Sound changed")
	return nil
}

// SetTimerEnabled turns the practice countdown on or off.
func (c *Controller) SetTimerEnabled(enabled bool) {
	c.lock.Lock()
	c.timer.Enable(enabled)
	st := c.timer.State()
	c.lock.Unlock()

	c.notifier.push(st)
}

// ResetTimer sets the practice countdown to d, or to the configured duration when d is not positive.
func (c *Controller) ResetTimer(d time.Duration) {
	if d <= 0 {
		d = c.cfg.Timer.Duration
	}

	c.lock.Lock()
	c.timer.Reset(d)
	st := c.timer.State()
	c.lock.Unlock()

	c.notifier.push(st)
}

// Snapshot returns the current settings.
func (c *Controller) Snapshot() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	st := State{
		Tempo:       c.tempo,
		Subdivision: c.subdivision,
		Sound:       c.sound,
		RunState:    c.state,
		Interval:    c.schedule.Interval(),
		Timer:       c.timer.State(),
	}
	if c.state == Running {
		st.Next = c.schedule.Next()
	}
	return st
}

// Config returns the configuration the controller was created with.
func (c *Controller) Config() config.MetronomeConfig {
	return c.cfg
}

// halt moves the loop identified by stop to Stopped. It must be called with lock held and reports whether it
// changed anything.
func (c *Controller) halt(stop chan struct{}) bool {
	if c.state != Running || stop == nil || c.stop != stop {
		return false
	}
	c.state = Stopped
	c.schedule.Stop()
	close(stop)
	return true
}

func (c *Controller) dispatch(ev interface{}) {
	c.handlerLock.RLock()
	onTick, onError, onTimer := c.onTick, c.onError, c.onTimer
	c.handlerLock.RUnlock()

	switch ev := ev.(type) {
	case Tick:
		if onTick != nil {
			onTick(ev)
		}
	case TimerState:
		if onTimer != nil {
			onTimer(ev)
		}
	case error:
		if onError != nil {
			onError(ev)
		}
	}
}
