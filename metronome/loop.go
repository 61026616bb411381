package metronome

import (
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// run drives one Running period. The audio output is held for exactly as long as run executes. The loop has
// already moved to Stopped when it returns an error.
func (c *Controller) run(stop, done chan struct{}, fire clock.Timer, second clock.Ticker) {
	defer close(done)

	err := c.player.Session(func() error {
		return c.loop(stop, fire, second)
	})
	if err == nil {
		return
	}

	// a failed close still stops the metronome
	c.lock.Lock()
	c.halt(stop)
	c.lock.Unlock()

	c.logger.WithError(err).Error("Metronome stopped after an audio error")
	c.notifier.push(err)
}

func (c *Controller) loop(stop chan struct{}, fire clock.Timer, second clock.Ticker) error {
	defer fire.Stop()
	defer second.Stop()

	c.logger.Debug("Timing loop started")

	for {
		select {
		case <-stop:
			c.logger.Debug("Timing loop shutdown")
			return nil

		case <-second.C():
			if expired := c.countdown(); expired && c.cfg.Timer.StopOnExpiry {
				c.lock.Lock()
				c.halt(stop)
				c.lock.Unlock()
				c.logger.Info("Practice timer expired, stopping metronome")
				return nil
			}

		case <-fire.C():
			tick, ok := c.consume(stop, fire)
			if !ok {
				return nil
			}

			buf := c.source.ActiveBuffer()
			if err := c.player.Play(buf); err != nil {
				c.lock.Lock()
				c.halt(stop)
				c.lock.Unlock()
				return err
			}
			if buf != nil {
				tick.Sound = buf.Sound()
			}

			c.logTick(tick)
			c.notifier.push(tick)
		}
	}
}

// consume takes the click that is due off the schedule and arms fire for the following one. It returns false if
// the loop was stopped in the meantime.
func (c *Controller) consume(stop chan struct{}, fire clock.Timer) (Tick, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != Running || c.stop != stop {
		return Tick{}, false
	}

	now := c.clock.Now()
	tick := Tick{
		Tick:     c.schedule.Upcoming(),
		Sound:    c.sound,
		PlayedAt: now,
	}
	tick.Dropped = c.schedule.Consume(now)
	fire.Reset(c.schedule.Next().Sub(now))
	return tick, true
}

// countdown advances the practice timer by one second of running time and reports whether it just expired.
func (c *Controller) countdown() bool {
	c.lock.Lock()
	changed, expired := c.timer.Countdown(time.Second)
	st := c.timer.State()
	c.lock.Unlock()

	if changed {
		c.notifier.push(st)
	}
	return expired
}

func (c *Controller) logTick(tick Tick) {
	fields := logrus.Fields{
		"tick":    tick.Index,
		"marker":  tick.Marker(),
		"tempo":   tick.Tempo,
		"latency": tick.Latency(),
	}
	if tick.Dropped > 0 {
		fields["dropped"] = tick.Dropped
		c.logger.WithFields(fields).Warn("Metronome fell behind, dropped clicks")
		return
	}
	c.logger.WithFields(fields).Debug("Tick")
}
