package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"archview/internal/server"
	"archview/pkg/session"
	"archview/pkg/store"
)

// newServeCmd creates the serve command for running the HTTP view API.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		configFile string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP view API",
		Long: `Run the HTTP view API.

The server exposes the snapshot catalog and per-session drillable views over
a JSON API, and pushes layout completions to connected renderers over a
websocket. Snapshot and session backends are chosen in the config file;
defaults are the local snapshot directory and in-memory sessions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			snapshots, err := newSnapshotStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer snapshots.Close(context.Background())

			sessions, err := newSessionStore(ctx, cfg.Server)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			defer sessions.Close()

			engine, err := newEngine(cfg.Engine)
			if err != nil {
				return err
			}
			dir, err := parseDirection(cfg.Direction)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Snapshots: snapshots,
				Sessions:  sessions,
				Engine:    engine,
				Cache:     newCache(noCache),
				Direction: dir,
				Logger:    logger,
			})
			defer srv.Close()

			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Server.Addr)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: ~/.config/archview/config.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	return cmd
}

// =============================================================================
// Backend Selection
// =============================================================================

// newSnapshotStore picks the snapshot backend: mongo when a URI is
// configured, otherwise the local snapshot directory.
func newSnapshotStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Server.MongoURI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.Server.MongoURI})
	}
	return store.NewFileStore(cfg.SnapshotDir)
}

// newSessionStore picks the session backend from config.
func newSessionStore(ctx context.Context, cfg ServerConfig) (session.Store, error) {
	switch cfg.Sessions {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "file":
		return session.NewFileStore("")
	case "redis":
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown session backend %q (want memory, file or redis)", cfg.Sessions)
	}
}
