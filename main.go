package main

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep"
	commonerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/metronome"
	"github.com/robmorgan/metronome/playback"
	"github.com/robmorgan/metronome/sound"
	"k8s.io/utils/clock"
)

// configEnv names an optional YAML config file.
const configEnv = "METRONOME_CONFIG"

func main() {
	ctx := context.Background()
	if err := Run(ctx); err != nil {
		logger.GetProjectLogger().SetOutput(os.Stderr)
		logger.GetProjectLogger().Error(commonerrors.PrintErrorWithStackTrace(err))
		os.Exit(1)
	}
}

// Run starts the console
func Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	logger := logger.GetProjectLogger()

	// initialize the config
	logger.Info("Initializing config...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	// initialize the click sounds and audio output
	logger.Info("Initializing audio...")
	format := beep.Format{SampleRate: beep.SampleRate(cfg.SampleRate), NumChannels: 2, Precision: 2}
	source := sound.NewClickSource(cfg.GetAssets(), format.SampleRate)
	if err := source.Preload(); err != nil {
		return err
	}
	engine := playback.NewEngine(playback.NewSpeakerSink(cfg.Latency), format)

	// init the metronome
	logger.Info("Initializing metronome...")
	ctrl, err := metronome.New(cfg, clock.RealClock{}, source, engine)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	p := tea.NewProgram(newModel(ctrl))
	ctrl.OnTick(func(t metronome.Tick) { p.Send(beatMsg(t)) })
	ctrl.OnTimer(func(st metronome.TimerState) { p.Send(timerMsg(st)) })
	ctrl.OnError(func(err error) { p.Send(errMsg{err}) })

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err = p.Run()
	logger.Info("shutting down metronome")
	return err
}

func loadConfig() (config.MetronomeConfig, error) {
	path := os.Getenv(configEnv)
	if path == "" {
		return config.NewMetronomeConfig()
	}
	return config.LoadFile(path)
}

// setupLogging moves log output off the terminal, which belongs to the console once it starts.
func setupLogging(cfg config.MetronomeConfig) error {
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return commonerrors.WithStackTrace(err)
	}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return commonerrors.WithStackTrace(err)
		}
		out = f
	}
	logger.GetProjectLogger().SetOutput(out)
	return nil
}

func isDeviceError(err error) bool {
	var deviceErr *playback.DeviceError
	return errors.As(err, &deviceErr)
}
