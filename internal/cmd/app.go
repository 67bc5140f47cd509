package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/auth"
	"github.com/TriAzz/showcase/internal/comments"
	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/logging"
	"github.com/TriAzz/showcase/internal/projects"
	"github.com/TriAzz/showcase/internal/storage"
)

// app holds the wired-up client components every command runs against.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	files    *storage.FileStore
	client   *api.Client
	session  *auth.Session
	projects *projects.Store
	comments *comments.Store
}

// newApp builds the full client from configuration, restores any persisted
// session, and preloads the cached project listing.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	stateDir := cfg.Paths.ResolveStateDir()

	log := logging.NopLogger()
	if cfg.Logging.Enabled {
		log, err = logging.NewLogger(filepath.Join(stateDir, "logs"), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
	}

	files, err := storage.NewFileStore(filepath.Join(stateDir, "store"))
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	client := api.NewClient(cfg.API, log)
	session := auth.New(client, files, log)

	store := projects.New(client, session, files, cfg, log)
	store.OnSessionExpired = session.Invalidate
	session.OnSignOut(store.Reset)

	a := &app{
		cfg:      cfg,
		log:      log,
		files:    files,
		client:   client,
		session:  session,
		projects: store,
		comments: comments.New(client, session, log),
	}

	if err := session.Restore(); err != nil {
		log.Warn("failed to restore session", "error", err)
	}
	if err := store.LoadCached(); err != nil {
		log.Warn("failed to restore cached listing", "error", err)
	}
	return a, nil
}

// close flushes and releases resources held by the app.
func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

// requireSession fails fast when a command needs a signed-in user.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not signed in; run `showcase login` first")
	}
	return nil
}
