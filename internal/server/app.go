// Package server initializes and runs the auth server: it opens the
// configured user store, builds the account service and serves it over
// gRPC and HTTP until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/paramita-auth/internal/cryptox"
	"github.com/dmitrijs2005/paramita-auth/internal/logging"
	"github.com/dmitrijs2005/paramita-auth/internal/server/auth"
	"github.com/dmitrijs2005/paramita-auth/internal/server/config"
	"github.com/dmitrijs2005/paramita-auth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/paramita-auth/internal/server/services"

	gs "github.com/dmitrijs2005/paramita-auth/internal/server/grpc"
	hs "github.com/dmitrijs2005/paramita-auth/internal/server/rest"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	accounts *services.AccountService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	if c.InsecureSecret() {
		logger.Warn(ctx, "JWT_SECRET is not set; tokens are signed with the public default secret and can be forged")
	}

	rm, err := repomanager.NewRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("storage migration error: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost, c.HashConcurrency)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	tokens, err := auth.NewTokenService(c.SecretKey, c.AccessTokenValidityDuration, logger.With("module", "tokens"))
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	accounts := services.NewAccountService(rm.Users(), hasher, tokens, c.StorageBackend, logger.With("module", "accounts"))

	return &App{config: c, logger: logger, repos: rm, accounts: accounts}, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.accounts)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// listener fails, then closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}

	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
