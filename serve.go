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

	"github.com/spf13/cobra"

	"github.com/Lexer747/folio/config"
	"github.com/Lexer747/folio/content"
	"github.com/Lexer747/folio/site"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site, reading posts on every request",
	Long: `serve renders pages on demand from the content directory. With
cache enabled, parsed posts are kept until their file changes and a file
watcher drops them as soon as they are edited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg config.Config) error {
	s := newSite(cfg, site.WithMetrics(site.NewMetrics(nil)))

	if cfg.Cache {
		w, err := content.NewWatcher(cfg.ContentDir, 200*time.Millisecond, func(slugs []string) {
			for _, slug := range slugs {
				s.Store().Invalidate(slug)
			}
			slog.Info("Content changed", "posts", slugs)
		})
		if err != nil {
			return wrap(err, "failed to watch content")
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("content watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           site.NewServer(s),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		slog.Info("Serving site", "addr", cfg.Addr, "content", cfg.ContentDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		if err == nil {
			return nil
		}
		return wrap(err, "failed to start HTTP server")
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
