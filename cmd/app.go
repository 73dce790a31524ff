package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pairplan/internal/config"
	"github.com/papapumpkin/pairplan/internal/session"
	"github.com/papapumpkin/pairplan/internal/sessionfile"
	"github.com/papapumpkin/pairplan/internal/store"
	"github.com/papapumpkin/pairplan/internal/telemetry"
	"github.com/papapumpkin/pairplan/internal/ui"
)

// app bundles what every command needs: configuration, output, the
// diagnostic logger and the telemetry stream.
type app struct {
	cfg     config.Config
	printer *ui.Printer
	logger  *slog.Logger
	events  *telemetry.Emitter
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	a := &app{
		cfg:     cfg,
		printer: ui.New(cfg.NoColor),
		logger:  newLogger(level, cfg.LogFormat, os.Stderr),
	}
	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			// Telemetry is best-effort; commands still run without it.
			a.logger.Warn("telemetry disabled", "error", err)
		} else {
			a.events = em
		}
	}
	return a, nil
}

// runWithApp adapts a command body that needs an app to cobra's RunE.
func runWithApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(a, cmd, args)
	}
}

func (a *app) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn("closing telemetry", "error", err)
	}
}

// emit records a telemetry event, logging rather than failing on error.
func (a *app) emit(evt telemetry.Event) {
	if err := a.events.Emit(evt); err != nil {
		a.logger.Warn("telemetry emit failed", "kind", evt.Kind, "error", err)
	}
}

func (a *app) load(path string) (session.Session, error) {
	s, err := sessionfile.Load(path)
	if err != nil {
		return session.Session{}, err
	}
	a.logger.Debug("session loaded", "path", path, "items", len(s.Items))
	a.emit(telemetry.Event{
		Kind:    telemetry.KindSessionLoaded,
		Session: sessionfile.Name(path),
		Data:    map[string]any{"items": len(s.Items), "decisions": len(s.Decisions)},
	})
	return s, nil
}

func (a *app) save(path string, s session.Session) error {
	if err := sessionfile.Save(path, s); err != nil {
		return err
	}
	a.logger.Debug("session saved", "path", path)
	a.emit(telemetry.Event{Kind: telemetry.KindSessionSaved, Session: sessionfile.Name(path)})
	return nil
}

// update loads the session at path, applies fn, and saves the result.
func (a *app) update(path string, fn func(session.Session) (session.Session, error)) (session.Session, error) {
	s, err := a.load(path)
	if err != nil {
		return session.Session{}, err
	}
	g := session.NewGuard(s)
	next, err := g.Apply(fn)
	if err != nil {
		return session.Session{}, err
	}
	if err := a.save(path, next); err != nil {
		return session.Session{}, err
	}
	return next, nil
}

func (a *app) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(ctx, a.cfg.StorePath, a.logger)
}
