package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		banTerms []string
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore artworks in the terminal",
		Long: `Opens the terminal viewer.

Keys: n new artwork, 1-6 ban the numbered attribute, c clear filters,
h show history, up/down and enter to revisit an artwork, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the viewer owns the terminal, so logs go to a file
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: a.level})))

			e := explorer.New("terminal", a.newSampler(), a.banList(banTerms))
			return tui.Run(cmd.Context(), e)
		},
	}

	cmd.Flags().StringArrayVar(&banTerms, "ban", nil, "Start with this term banned (repeatable)")
	cmd.Flags().StringVar(&logFile, "log-file", "artexplorer.log", "Where to write logs while the viewer runs")

	return cmd
}
