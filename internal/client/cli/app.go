package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/avoronin/jotter/internal/client/api"
	"github.com/avoronin/jotter/internal/client/config"
	"github.com/avoronin/jotter/internal/client/repositories/metadata"
	"github.com/avoronin/jotter/internal/client/session"
	"github.com/avoronin/jotter/internal/client/storage"
	"github.com/avoronin/jotter/internal/logging"
)

// accountKey is the metadata slot caching the account email for the prompt.
const accountKey = "account_email"

type App struct {
	config *config.Config
	log    logging.Logger

	db      *sql.DB
	meta    metadata.Repository
	store   *session.Store
	gateway *api.Gateway

	reader   *bufio.Reader
	out      io.Writer
	userName string
}

// NewApp wires storage, the credential store, the request gateway, and the
// refresh coordinator, then restores any persisted session.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	meta := metadata.NewSQLiteRepository(db)
	store := session.NewStore(meta, log)
	gateway := api.NewGateway(cfg.ServerBaseURL, store, log, cfg.RequestTimeout)
	gateway.WithRefresher(session.NewCoordinator(store, gateway.RenewSession, log))

	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	userName, err := meta.Get(ctx, accountKey)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   cfg,
		log:      log,
		db:       db,
		meta:     meta,
		store:    store,
		gateway:  gateway,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		userName: userName,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.RefreshToken() != ""
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	if a.userName != "" {
		return fmt.Sprintf("(%s)", a.userName)
	}
	return "(logged in)"
}
