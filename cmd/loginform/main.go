package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	sqliteadapter "github.com/ericfisherdev/loginform/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/loginform/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/loginform/internal/adapter/driving/web"
	"github.com/ericfisherdev/loginform/internal/application"
	"github.com/ericfisherdev/loginform/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (.env first; the process environment wins).
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel.String(),
		"query_timeout", cfg.QueryTimeout,
		"banner", cfg.Banner != "",
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database.
	db, err := sqliteadapter.NewDB(ctx, cfg.ConnString, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "driver", db.Driver())

	// 4. Run migrations.
	sqlDB, err := db.DB(ctx)
	if err != nil {
		return err
	}
	if err := sqliteadapter.RunMigrations(sqlDB); err != nil {
		return err
	}
	logger.Info("migrations complete")

	// 5. Wire adapters and services.
	userStore := sqliteadapter.NewUserRepo(db)
	loginSvc := application.NewLoginService(userStore, cfg.QueryTimeout, logger)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(loginSvc, db, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(loginSvc, cfg.Banner, logger))

	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 6. Serve until a signal arrives or the listener fails.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
