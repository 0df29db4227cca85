// Package app wires the portal client together: local state database,
// session, API client, services, and the terminal UI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/config"
	"github.com/staffvault/pdfportal/internal/client/services"
	"github.com/staffvault/pdfportal/internal/client/session"
	"github.com/staffvault/pdfportal/internal/client/state"
	"github.com/staffvault/pdfportal/internal/client/tui"
	"github.com/staffvault/pdfportal/internal/filex"
	"github.com/staffvault/pdfportal/internal/logging"
)

// App owns the client's long-lived resources.
type App struct {
	config *config.Config
	log    logging.Logger

	db     *sql.DB
	sess   *session.Session
	client *api.HTTPClient
	viewer *services.Viewer
	deps   tui.Deps
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	stateDir, err := filex.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}

	db, err := state.Open(ctx, filepath.Join(stateDir, "portal.db"))
	if err != nil {
		return nil, err
	}

	store := state.NewSQLiteRepository(db)
	sess := session.New(store, log)
	if err := sess.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}

	// RequestTimeout defaults to zero: no client-wide deadline, so large
	// downloads are never cut off. Operators can still set one in the
	// config file or via -t.
	client := api.NewHTTPClient(cfg.ServerEndpointAddr,
		api.WithTokenSource(sess),
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	sess.SetClient(client)

	tmpDir, err := filex.EnsureSubDir(stateDir, "tmp")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	downloadsDir, err := filex.EnsureSubDir(stateDir, "downloads")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	viewer := services.NewViewer(client, tmpDir, log)

	app := &App{
		config: cfg,
		log:    log,
		db:     db,
		sess:   sess,
		viewer: viewer,
		deps: tui.Deps{
			Session:  sess,
			Users:    services.NewUserService(client),
			Groups:   services.NewGroupService(client),
			Files:    services.NewFileService(client),
			Viewer:   viewer,
			Importer: services.NewImportService(client, downloadsDir),
			Log:      log,
		},
	}

	// The 401 hook purges the credential and drops the UI to the login
	// screen; the program handle is wired in Run.
	client.SetUnauthorizedHandler(func() {
		sess.Invalidate(context.Background())
	})
	app.client = client

	return app, nil
}

// Run starts the terminal UI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the portal client needs an interactive terminal")
	}

	program := tea.NewProgram(tui.NewApp(a.deps), tea.WithAltScreen(), tea.WithContext(ctx))

	a.client.SetUnauthorizedHandler(func() {
		a.sess.Invalidate(context.Background())
		program.Send(tui.SessionExpiredMsg{})
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Close releases the state database and sweeps transient downloads.
func (a *App) Close() {
	a.viewer.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close state db", "error", err)
	}
}
