package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/metronome"
	"github.com/robmorgan/metronome/utils"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = m.handleKey(msg.String())
		if m.quitting {
			return m, tea.Quit
		}
	case beatMsg:
		m.lastBeat = metronome.Tick(msg)
		m.flashedAt = time.Now()
		m.beats++
	case timerMsg:
		// the snapshot below picks the new value up
	case errMsg:
		m.err = msg.err
	case frameMsg:
		m.state = m.ctrl.Snapshot()
		return m, frameCmd()
	default:
		return m, nil
	}
	m.state = m.ctrl.Snapshot()
	return m, nil
}

func (m *model) handleKey(key string) error {
	switch key {
	case " ", "enter":
		return m.ctrl.Toggle()
	case "[", "-", "down":
		return m.ctrl.DecrementTempo()
	case "]", "+", "=", "up":
		return m.ctrl.IncrementTempo()
	case "{", "pgdown":
		return m.jumpTempo(-10)
	case "}", "pgup":
		return m.jumpTempo(10)
	case "e":
		return m.ctrl.SetSubdivision(m.state.Subdivision.Toggle())
	case "s":
		return m.ctrl.SelectSound(m.state.Sound.Toggle())
	case "t":
		m.ctrl.SetTimerEnabled(!m.state.Timer.Enabled)
	case "r":
		m.ctrl.ResetTimer(0)
	case "q", "ctrl+c":
		m.quitting = true
	}
	return nil
}

// jumpTempo moves the tempo by delta, stopping at the configured range.
func (m *model) jumpTempo(delta float64) error {
	cfg := m.ctrl.Config()
	return m.ctrl.SetTempo(utils.Clamp(m.state.Tempo+delta, cfg.MinTempo, cfg.MaxTempo))
}
