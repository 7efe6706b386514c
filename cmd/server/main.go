// Package main initializes and starts the showcase web server, setting up
// configuration, logging, database connections, repositories, services,
// provider locator, handlers, and routing.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/showcase/internal/config"
	"github.com/atinyakov/showcase/internal/db"
	"github.com/atinyakov/showcase/internal/logger"
	"github.com/atinyakov/showcase/internal/provider"
	"github.com/atinyakov/showcase/internal/repository"
	"github.com/atinyakov/showcase/internal/server/handler/http"
	"github.com/atinyakov/showcase/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Purge expired sessions in the background.
	db.StartExpiredSessionCleaner(ctx, postgresDB, options.CleanupInterval, zapLogger)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	connectionRepo := repository.NewPostgresConnectionRepository(postgresDB)

	// Initialize business-logic services.
	userService := service.NewUserService(userRepo, connectionRepo)
	sessionService := service.NewSessionService(sessionRepo, options.SessionTTL)

	// Register the configured providers.
	providers := make([]provider.ServiceProvider, 0, len(options.Providers))
	for _, id := range options.Providers {
		providers = append(providers, provider.NewOAuthProvider(id, connectionRepo))
	}
	locator, err := provider.NewLocator(providers...)
	if err != nil {
		zapLogger.Fatal("invalid provider configuration", zap.Error(err))
	}
	zapLogger.Info("providers registered", zap.Strings("providers", locator.IDs()))

	// Create HTTP handlers.
	signupHandler := http.NewSignupHandler(userService, sessionService, sessionService, locator, zapLogger)
	homeHandler := http.NewHomeHandler(userService, zapLogger)

	// Build the router with middleware and routes.
	router := http.NewRouter(signupHandler, homeHandler, sessionService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("failed to shut down server", zap.Error(err))
		}
	}()

	if options.TLSCert != "" && options.TLSKey != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
