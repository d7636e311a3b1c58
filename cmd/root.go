package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/artexplorer/internal/catalog"
	"github.com/lehigh-university-libraries/artexplorer/internal/config"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string
	level      slog.Level
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "artexplorer",
		Short: "Browse random public-domain artworks from the Harvard Art Museums",
		Long: `ArtExplorer shows one random artwork at a time from the Harvard Art Museums
collection. Ban any attribute value (an artist, a culture, a medium...) and
artworks matching it are skipped from then on.

Set HARVARD_API_KEY (or api_key in artexplorer.yaml) before fetching.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if err := a.level.UnmarshalText([]byte(a.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: a.level})))

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file (default "+config.DefaultPath+" when present)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newBrowseCmd(a))
	cmd.AddCommand(newDiscoverCmd(a))
	cmd.AddCommand(newSampleCmd(a))

	return cmd
}

// newSampler builds a sampler over a catalog client configured from a.cfg
func (a *app) newSampler() *sampler.Sampler {
	return sampler.New(a.newClient(), 0)
}

func (a *app) newClient() *catalog.Client {
	if a.cfg.APIKey == "" {
		slog.Warn("No Harvard API key configured, requests will be rejected", "env", "HARVARD_API_KEY")
	}
	return catalog.NewClient(a.cfg.BaseURL, a.cfg.APIKey,
		catalog.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		catalog.WithRateLimit(a.cfg.RequestsPerSecond, sampler.DefaultMaxAttempts),
	)
}

// banList merges configured preset bans with terms given on the command line
func (a *app) banList(extra []string) []string {
	list := make([]string, 0, len(a.cfg.PresetBans)+len(extra))
	list = append(list, a.cfg.PresetBans...)
	return append(list, extra...)
}
