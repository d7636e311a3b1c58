package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/config"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/lehigh-university-libraries/artexplorer/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	got         providers.Config
	hasDeadline bool
	reply       string
	err         error
}

func (p *recordingProvider) Complete(ctx context.Context, config providers.Config) (string, error) {
	p.got = config
	_, p.hasDeadline = ctx.Deadline()
	return p.reply, p.err
}

var waterLilies = &models.ArtworkRecord{
	ObjectID:       1,
	Title:          "Water Lilies",
	People:         []models.Person{{Name: "Claude Monet"}},
	Culture:        "French",
	Century:        "20th century",
	Technique:      "Oil on canvas",
	Classification: "Paintings",
	Description:    "Part of a series.",
}

func stubService(p providers.Provider, model string) *Service {
	cfg := config.DefaultNotes()
	cfg.Provider = "stub"
	cfg.Model = model
	s := NewService(cfg)
	s.Register("stub", p)
	return s
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(waterLilies)

	assert.Contains(t, prompt, "Title: Water Lilies\n")
	assert.Contains(t, prompt, "Artist: Claude Monet\n")
	assert.Contains(t, prompt, "Medium: Oil on canvas\n")
	assert.Contains(t, prompt, "Century: 20th century\n")
	assert.Contains(t, prompt, "Catalog description: Part of a series.\n")
	assert.NotContains(t, prompt, "Period:")
	assert.NotContains(t, prompt, "docent", "instructions travel separately")
}

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt(50), "at most 50 words")
	assert.Contains(t, SystemPrompt(0), "at most 80 words")
}

func TestGenerateUsesDefaults(t *testing.T) {
	p := &recordingProvider{reply: "  A calm pond.  \n"}
	s := stubService(p, "stub-model")

	text, err := s.Generate(context.Background(), waterLilies, "", "")
	require.NoError(t, err)
	assert.Equal(t, "A calm pond.", text)
	assert.Equal(t, "stub-model", p.got.Model)
	assert.Equal(t, BuildPrompt(waterLilies), p.got.Prompt)
	assert.Equal(t, SystemPrompt(80), p.got.System)
	assert.Equal(t, 0.4, p.got.Temperature)
	assert.Equal(t, 160, p.got.MaxTokens)
	assert.True(t, p.hasDeadline, "requests are bounded by the notes timeout")
}

func TestGenerateExplicitModel(t *testing.T) {
	p := &recordingProvider{reply: "ok"}
	s := stubService(p, "stub-model")

	_, err := s.Generate(context.Background(), waterLilies, "stub", "other")
	require.NoError(t, err)
	assert.Equal(t, "other", p.got.Model)
}

func TestModelFor(t *testing.T) {
	cfg := config.DefaultNotes()
	cfg.Provider = "ollama"
	cfg.Model = "llava"
	s := NewService(cfg)

	assert.Equal(t, "llava", s.modelFor("ollama"), "notes-wide model applies to the default provider")
	assert.Equal(t, "gpt-4o-mini", s.modelFor("openai"))
	assert.Equal(t, "gemini-1.5-flash", s.modelFor("gemini"))
	assert.Equal(t, "", s.modelFor("other"))
}

func TestGenerateErrors(t *testing.T) {
	s := stubService(&recordingProvider{err: errors.New("boom")}, "")

	_, err := s.Generate(context.Background(), nil, "", "")
	assert.ErrorIs(t, err, ErrNoArtwork)

	_, err = s.Generate(context.Background(), waterLilies, "nope", "")
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = s.Generate(context.Background(), waterLilies, "", "")
	assert.ErrorContains(t, err, "boom")
}

func TestGenerateWithOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llava", body["model"])
		assert.Contains(t, body["system"], "museum docent")
		assert.Contains(t, body["prompt"], "Water Lilies")

		_, _ = w.Write([]byte(`{"response":"Monet painted his garden."}`))
	}))
	defer srv.Close()

	cfg := config.DefaultNotes()
	cfg.Ollama.BaseURL = srv.URL
	cfg.Ollama.Model = "llava"

	text, err := NewService(cfg).Generate(context.Background(), waterLilies, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Monet painted his garden.", text)
}

func TestGenerateWithOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Lilies."}}]}`))
	}))
	defer srv.Close()

	cfg := config.DefaultNotes()
	cfg.OpenAI.BaseURL = srv.URL
	cfg.OpenAI.APIKey = "sk-test"

	text, err := NewService(cfg).Generate(context.Background(), waterLilies, "openai", "")
	require.NoError(t, err)
	assert.Equal(t, "Lilies.", text)
}

func TestGenerateTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := config.DefaultNotes()
	cfg.Ollama.BaseURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewService(cfg).Generate(context.Background(), waterLilies, "ollama", "")
	require.Error(t, err)
}

func TestGeminiRequiresKey(t *testing.T) {
	cfg := config.DefaultNotes()
	cfg.Provider = "gemini"

	_, err := NewService(cfg).Generate(context.Background(), waterLilies, "", "")
	assert.ErrorIs(t, err, providers.ErrNotConfigured)
}
