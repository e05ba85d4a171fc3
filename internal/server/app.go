// Package server initializes and runs the authentication server.
// It wires the database, repositories, hashing, token minting and the HTTP
// API together and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/gatekeeper/internal/server/password"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher, err := password.NewArgon2(password.Params{
		MemoryKiB:   c.ArgonMemoryKiB,
		Time:        c.ArgonTime,
		Parallelism: c.ArgonParallelism,
		SaltLength:  password.DefaultSaltLength,
		KeyLength:   password.DefaultKeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	minter := auth.NewMinter([]byte(c.SecretKey), c.AccessTokenValidity, nil)
	svc := services.NewAuthService(db, rm, hasher, minter, c)
	handler := httpapi.NewHandler(svc, minter, logger, c.RefreshTokenValidity, c.SecureCookies)

	return &App{config: c, logger: logger, db: db, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server...", "addr", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
