package tui

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/logging"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	log     *logging.Logger
}

// New creates a new dashboard application
func New(deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logging.NopLogger()
	}
	return &App{
		model: NewModel(deps),
		log:   log.WithComponent("tui"),
	}
}

// Run starts the dashboard and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Graceful shutdown on termination signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Re-apply theme and page size when the config file changes on disk
	stopWatch := a.watchConfig()
	defer stopWatch()

	_, err := a.program.Run()
	return err
}

// watchConfig watches the config file and pushes reloads into the program.
// Editors replace files rather than writing in place, so the watch covers
// the directory and filters for the config file itself.
func (a *App) watchConfig() func() {
	configFile := config.ConfigFile()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.log.Warn("config watch unavailable", "error", err)
		return func() {}
	}
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		a.log.Warn("config watch unavailable", "error", err)
		_ = watcher.Close()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != configFile {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := viper.ReadInConfig(); err != nil {
					a.log.Warn("failed to re-read config", "error", err)
					continue
				}
				cfg, err := config.Load()
				if err != nil {
					a.log.Warn("ignoring invalid config change", "error", err)
					continue
				}
				a.log.Info("config reloaded", "file", configFile)
				a.program.Send(configReloadedMsg{cfg: cfg})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.log.Warn("config watch error", "error", err)

			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}
}
