package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petvet/internal/adapters/auth/session"
	rediscache "petvet/internal/adapters/cache/redis"
	pg "petvet/internal/adapters/storage/postgres"
	"petvet/internal/platform/config"
	"petvet/internal/platform/logger"
	"petvet/internal/ports/auth"
	"petvet/internal/router"
)

// @title PetVet API
// @version 1.0
// @description Historias clínicas de mascotas, pacientes de veterinarios y directorio de clínicas.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatalf("petvet: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	if s, ok := lg.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		CookieSecure: cfg.Session.CookieSecure,
		Logger:       lg,
		Directory: router.DirectoryOptions{
			BaseURL:       cfg.Directory.BaseURL,
			Radius:        cfg.Directory.Radius,
			MaxPages:      cfg.Directory.MaxPages,
			PageTimeout:   cfg.Directory.PageTimeout,
			SearchTimeout: cfg.Directory.SearchTimeout,
			CacheTTL:      cfg.Directory.CacheTTL,
		},
	}

	// Postgres si hay DSN; si no, in-memory (modo dev).
	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer closeDB(db, lg)
		if err := pg.Migrate(ctx, db); err != nil {
			return err
		}
		opts.DB = db
		lg.Info("using postgres store", nil)
	} else {
		lg.Warn("DB_DSN not set, using in-memory store", nil)
	}

	sessions, err := newSessions(cfg.Session, lg)
	if err != nil {
		return err
	}
	opts.Sessions = sessions

	if cfg.Redis.Enabled() {
		client, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			// Sin cache el directorio sigue andando, solo más lento.
			lg.Warn("redis unavailable, directory cache disabled", map[string]any{"error": err})
		} else {
			defer func() { _ = client.Close() }()
			opts.Directory.Cache = rediscache.NewListingCache(client)
		}
	}

	handler, svcs, err := router.New(opts)
	if err != nil {
		return err
	}

	if cfg.Admin.Enabled() {
		created, err := svcs.Users.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if created {
			lg.Info("bootstrap admin created", map[string]any{"username": cfg.Admin.Username})
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// La búsqueda del directorio corta antes (DIRECTORY_SEARCH_TIMEOUT < WriteTimeout).
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSessions(cfg config.SessionConfig, lg logger.Logger) (auth.SessionCodec, error) {
	var (
		codec *session.Codec
		err   error
	)
	if cfg.Secret == "" {
		lg.Warn("SESSION_SECRET not set, sessions will not survive a restart", nil)
		codec, err = session.NewRandom(cfg.TTL)
	} else {
		codec, err = session.New([]byte(cfg.Secret), cfg.TTL)
	}
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	return codec, nil
}

func closeDB(db *sql.DB, lg logger.Logger) {
	if err := db.Close(); err != nil {
		lg.Warn("close database", map[string]any{"error": err})
	}
}
