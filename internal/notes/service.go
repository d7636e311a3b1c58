// Package notes writes short curator notes about an artwork with an LLM.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/artexplorer/internal/config"
	"github.com/lehigh-university-libraries/artexplorer/internal/gemini"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/ollama"
	"github.com/lehigh-university-libraries/artexplorer/internal/openai"
	"github.com/lehigh-university-libraries/artexplorer/internal/providers"
)

// ErrNoArtwork is returned when notes are requested without an artwork
var ErrNoArtwork = errors.New("no artwork selected")

// Service routes note requests to the configured providers
type Service struct {
	providers map[string]providers.Provider
	cfg       config.NotesConfig
}

// NewService registers the ollama, openai and gemini providers from cfg.
// The HTTP providers share one client bounded by cfg.Timeout.
func NewService(cfg config.NotesConfig) *Service {
	client := &http.Client{Timeout: cfg.Timeout}
	return &Service{
		providers: map[string]providers.Provider{
			"ollama": ollama.New(cfg.Ollama.BaseURL, client),
			"openai": openai.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, client),
			"gemini": gemini.New(cfg.Gemini.APIKey),
		},
		cfg: cfg,
	}
}

// Register adds or replaces a provider
func (s *Service) Register(name string, p providers.Provider) {
	s.providers[name] = p
}

// Generate returns a short paragraph about the artwork. Empty provider and
// model select the configured defaults.
func (s *Service) Generate(ctx context.Context, r *models.ArtworkRecord, provider, model string) (string, error) {
	if r == nil {
		return "", ErrNoArtwork
	}

	if provider == "" {
		provider = s.cfg.Provider
	}
	if provider == "" {
		provider = "ollama"
	}

	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if model == "" {
		model = s.modelFor(provider)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	slog.Info("Generating curator notes", "provider", provider, "model", model, "objectid", r.ObjectID)

	text, err := p.Complete(ctx, providers.Config{
		Model:       model,
		Temperature: s.cfg.Temperature,
		System:      SystemPrompt(s.cfg.MaxWords),
		Prompt:      BuildPrompt(r),
		MaxTokens:   maxTokens(s.cfg.MaxWords),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate notes with %s: %w", provider, err)
	}

	return strings.TrimSpace(text), nil
}

// modelFor picks the model for provider: the notes-wide override when
// provider is the default one, else the provider's own default.
func (s *Service) modelFor(provider string) string {
	if provider == s.cfg.Provider && s.cfg.Model != "" {
		return s.cfg.Model
	}
	settings, _ := s.cfg.ProviderSettings(provider)
	return settings.Model
}

// maxTokens leaves headroom over the word limit
func maxTokens(words int) int {
	if words <= 0 {
		return 0
	}
	return words * 2
}

// SystemPrompt holds the docent instructions
func SystemPrompt(maxWords int) string {
	if maxWords <= 0 {
		maxWords = 80
	}
	return fmt.Sprintf(`You are a museum docent writing a label for a gallery wall.
Write one short paragraph (at most %d words) introducing the artwork to a general audience.
Only use the facts given; do not invent dates, names or provenance.`, maxWords)
}

// BuildPrompt lists the artwork's known attributes
func BuildPrompt(r *models.ArtworkRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", r.DisplayTitle())
	for _, a := range r.Attributes() {
		fmt.Fprintf(&b, "%s: %s\n", a.Label, a.Value)
	}
	if r.Century != "" {
		fmt.Fprintf(&b, "Century: %s\n", r.Century)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "Catalog description: %s\n", r.Description)
	}
	return b.String()
}
