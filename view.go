package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronome/engine/scale"
	"github.com/robmorgan/metronome/metronome"
)

var (
	tempoStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = helpStyle.Copy().UnsetMargins()
	appStyle   = lipgloss.NewStyle().Margin(1, 2, 0, 2)

	flashOn      = mustHex("#ff5f87")
	flashOffbt   = mustHex("#5fafff")
	flashResting = mustHex("#303030")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// flashLevel returns how bright the beat indicator is, 1 right after a click fading to 0.
func flashLevel(since time.Duration) float64 {
	if since < 0 || since >= flashDuration {
		return 0
	}
	return 1 - ease.OutQuad(float64(since)/float64(flashDuration))
}

func (m model) indicator() string {
	level := 0.0
	if m.state.RunState == metronome.Running && !m.flashedAt.IsZero() {
		level = flashLevel(time.Since(m.flashedAt))
	}

	on := flashOn
	if m.lastBeat.Offbeat {
		on = flashOffbt
	}
	c := flashResting.BlendLab(on, level).Clamped()
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(strings.Repeat(" ", 8))
}

func (m model) View() string {
	var s string

	s += m.indicator() + tempoStyle.Render(fmt.Sprintf("%.0f BPM", m.state.Tempo)) + "\n\n"

	gauge := scale.ToUnitClamp(m.ctrl.Config().MinTempo, m.ctrl.Config().MaxTempo)
	s += m.tempoBar.ViewAs(gauge(m.state.Tempo)) + "\n\n"

	s += fmt.Sprintf("State: %s   Subdivision: %s   Sound: %s\n", m.state.RunState, m.state.Subdivision, m.state.Sound)
	if m.beats > 0 {
		s += dimStyle.Render(fmt.Sprintf("Beat %s   clicks: %d   latency: %v", m.lastBeat.Marker(), m.beats,
			m.lastBeat.Latency().Round(time.Microsecond))) + "\n"
	}

	timer := m.state.Timer
	timerLabel := "off"
	if timer.Enabled {
		timerLabel = timer.String()
	}
	s += fmt.Sprintf("\nTimer: %s\n", timerLabel)
	if timer.Enabled && timer.Duration > 0 {
		s += m.timerBar.ViewAs(float64(timer.Remaining)/float64(timer.Duration)) + "\n"
	}

	if m.err != nil {
		msg := m.err.Error()
		if isDeviceError(m.err) {
			msg = "audio output unavailable: " + msg
		}
		s += "\n" + errStyle.Render(msg) + "\n"
	}

	s += helpStyle.Render("(space) start/stop  ([,]) BPM -/+  ({,}) BPM -/+10  (e) eighths  (s) sound  (t) timer  (r) reset timer\n\nPress q to exit\n")

	if m.quitting {
		s += "\n"
	}
	return appStyle.Render(s)
}
