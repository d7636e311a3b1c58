package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/notes"
	"github.com/lehigh-university-libraries/artexplorer/internal/render"
	"github.com/lehigh-university-libraries/artexplorer/internal/sampler"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var (
		banTerms  []string
		format    string
		withNotes bool
		provider  string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Fetch one random artwork that passes the filters",
		Example: `  # Show a random artwork
  artexplorer discover

  # Skip anything Dutch or made of bronze, print JSON
  artexplorer discover --ban Dutch --ban bronze --format json

  # Ask a local model for curator notes
  artexplorer discover --notes --provider ollama`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format %q (use text, json or yaml)", format)
			}

			e := explorer.New("cli", a.newSampler(), a.banList(banTerms))
			out := cmd.OutOrStdout()

			record, err := e.Discover(cmd.Context())
			if errors.Is(err, sampler.ErrExhausted) {
				slog.Info("No artwork passed the filters", "attempts", sampler.DefaultMaxAttempts)
				return printArtwork(out, format, nil, e)
			}
			if err != nil {
				if printErr := printArtwork(out, format, nil, e); printErr != nil {
					slog.Error("Unable to print result", "err", printErr)
				}
				return err
			}

			if err := printArtwork(out, format, record, e); err != nil {
				return err
			}

			if !withNotes {
				return nil
			}
			service := notes.NewService(a.cfg.Notes)
			text, err := service.Generate(cmd.Context(), record, provider, model)
			if err != nil {
				return fmt.Errorf("failed to generate curator notes: %w", err)
			}
			_, err = fmt.Fprintf(out, "\n%s\n", text)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&banTerms, "ban", nil, "Skip artworks with an attribute containing this term (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&withNotes, "notes", false, "Generate curator notes for the artwork with an LLM")
	cmd.Flags().StringVar(&provider, "provider", "", "Notes provider: ollama, openai or gemini (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "Notes model (default depends on provider)")

	return cmd
}

func printArtwork(w io.Writer, format string, record *models.ArtworkRecord, e *explorer.Explorer) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(record)
	default:
		_, err := fmt.Fprintln(w, render.Card(record, e.Bans()))
		return err
	}
}
