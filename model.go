package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/metronome"
)

const (
	// frameRate drives the flash animation
	frameRate     = 40
	flashDuration = 150 * time.Millisecond
)

type model struct {
	ctrl      *metronome.Controller
	state     metronome.State
	lastBeat  metronome.Tick
	flashedAt time.Time
	beats     int64
	tempoBar  progress.Model
	timerBar  progress.Model
	err       error
	quitting  bool
}

func newModel(ctrl *metronome.Controller) model {
	return model{
		ctrl:  ctrl,
		state: ctrl.Snapshot(),
		tempoBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		timerBar: progress.New(
			progress.WithSolidFill("63"),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

func (m model) Init() tea.Cmd {
	return frameCmd()
}

type frameMsg time.Time

type beatMsg metronome.Tick

type timerMsg metronome.TimerState

type errMsg struct {
	err error
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
