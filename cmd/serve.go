package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/catalog"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/handlers"
	"github.com/lehigh-university-libraries/artexplorer/internal/notes"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web viewer",
		Long: `Starts the ArtExplorer web viewer and its JSON API.

Every browser tab gets its own session with its own history and filters.
Sessions live in memory and are dropped after server.idle_ttl without
activity (0 keeps them until the server stops).`,
		Example: `  # Start server on default port 8888
  artexplorer serve

  # Start server on custom port
  artexplorer serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = a.cfg.Server.Port
			}
			if staticDir == "" {
				staticDir = a.cfg.Server.StaticDir
			}

			// one client shares its rate limiter across all sessions
			client := a.newClient()
			handler := handlers.New(func() explorer.Fetcher {
				return sampler.New(client, 0)
			}, handlers.Options{
				PresetBans: a.cfg.PresetBans,
				Notes:      notes.NewService(a.cfg.Notes),
				StaticDir:  staticDir,
			})

			janitorCtx, stopJanitor := context.WithCancel(cmd.Context())
			defer stopJanitor()
			go handler.RunJanitor(janitorCtx, a.cfg.Server.IdleTTL)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("ArtExplorer interface available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"catalog", baseURLOrDefault(a.cfg.BaseURL),
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default from config, 8888)")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "Directory holding the web viewer (default from config, ./static)")

	return cmd
}

func baseURLOrDefault(u string) string {
	if u == "" {
		return catalog.DefaultBaseURL
	}
	return u
}
