package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/export"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
	"github.com/spf13/cobra"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		banTerms []string
		count    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw several filtered artworks and export them as a dataset",
		Long: `Runs discover repeatedly and writes every accepted artwork to a file.
The format follows the file extension: .parquet, .jsonl, .yaml or .yml.`,
		Example: `  # 25 non-photograph artworks as parquet
  artexplorer sample --count 25 --ban Photographs --output artworks.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			list := bans.List{}
			for _, term := range a.banList(banTerms) {
				if !list.Contains(term) {
					list = bans.Toggle(term, list)
				}
			}

			s := a.newSampler()
			records := make([]*models.ArtworkRecord, 0, count)
			for i := 0; i < count; i++ {
				record, err := s.FetchOne(cmd.Context(), list)
				if errors.Is(err, sampler.ErrExhausted) {
					slog.Info("No artwork passed the filters", "draw", fmt.Sprintf("%d/%d", i+1, count))
					continue
				}
				if err != nil {
					return fmt.Errorf("draw %d: %w", i+1, err)
				}
				slog.Info("Artwork sampled", "draw", fmt.Sprintf("%d/%d", i+1, count), "objectid", record.ObjectID, "title", record.Title)
				records = append(records, record)
			}

			if err := export.Write(output, records, list); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d of %d artworks to %s\n", len(records), count, output)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&banTerms, "ban", nil, "Skip artworks with an attribute containing this term (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of draws")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.parquet, .jsonl, .yaml)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
