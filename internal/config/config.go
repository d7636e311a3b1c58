// Package config loads runtime settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given and the file exists
const DefaultPath = "artexplorer.yaml"

// Config is the runtime configuration
type Config struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	PresetBans        []string      `yaml:"preset_bans"`
	Notes             NotesConfig   `yaml:"notes"`
	Server            ServerConfig  `yaml:"server"`
}

// NotesConfig selects and configures the LLM used for curator notes
type NotesConfig struct {
	Provider    string         `yaml:"provider"`
	Model       string         `yaml:"model"`
	Temperature float64        `yaml:"temperature"`
	MaxWords    int            `yaml:"max_words"`
	Timeout     time.Duration  `yaml:"timeout"`
	Ollama      ProviderConfig `yaml:"ollama"`
	OpenAI      ProviderConfig `yaml:"openai"`
	Gemini      ProviderConfig `yaml:"gemini"`
}

// ProviderConfig holds one provider's endpoint, credentials and default model
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Port      string        `yaml:"port"`
	StaticDir string        `yaml:"static_dir"`
	IdleTTL   time.Duration `yaml:"idle_ttl"`
}

// ProviderSettings returns the settings of the named notes provider
func (n NotesConfig) ProviderSettings(name string) (ProviderConfig, bool) {
	switch name {
	case "ollama":
		return n.Ollama, true
	case "openai":
		return n.OpenAI, true
	case "gemini":
		return n.Gemini, true
	default:
		return ProviderConfig{}, false
	}
}

// DefaultNotes returns the built-in notes configuration
func DefaultNotes() NotesConfig {
	return NotesConfig{
		Provider:    "ollama",
		Temperature: 0.4,
		MaxWords:    80,
		Timeout:     60 * time.Second,
		Ollama: ProviderConfig{
			BaseURL: "http://localhost:11434",
			Model:   "mistral-small3.2:24b",
		},
		OpenAI: ProviderConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Gemini: ProviderConfig{
			Model: "gemini-1.5-flash",
		},
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		BaseURL:           catalog.DefaultBaseURL,
		RequestsPerSecond: 5,
		Timeout:           30 * time.Second,
		Notes:             DefaultNotes(),
		Server: ServerConfig{
			Port:      "8888",
			StaticDir: "static",
			IdleTTL:   2 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// environment variables, in increasing precedence. An empty path reads
// DefaultPath when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setFromEnv(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}

func (c *Config) applyEnv() error {
	setFromEnv(&c.APIKey, "HARVARD_API_KEY")
	setFromEnv(&c.BaseURL, "HARVARD_API_URL")
	if v := os.Getenv("ARTEXPLORER_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ARTEXPLORER_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		c.RequestsPerSecond = rps
	}
	if v := os.Getenv("ARTEXPLORER_PRESET_BANS"); v != "" {
		c.PresetBans = nil
		for _, term := range strings.Split(v, ",") {
			if term = strings.TrimSpace(term); term != "" {
				c.PresetBans = append(c.PresetBans, term)
			}
		}
	}

	setFromEnv(&c.Notes.Provider, "NOTES_PROVIDER")
	setFromEnv(&c.Notes.Model, "NOTES_MODEL")
	setFromEnv(&c.Notes.Ollama.BaseURL, "OLLAMA_URL", "OLLAMA_HOST")
	setFromEnv(&c.Notes.Ollama.Model, "OLLAMA_MODEL")
	setFromEnv(&c.Notes.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setFromEnv(&c.Notes.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.Notes.OpenAI.Model, "OPENAI_MODEL")
	setFromEnv(&c.Notes.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&c.Notes.Gemini.Model, "GEMINI_MODEL")

	setFromEnv(&c.Server.Port, "PORT")
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, ok := c.Notes.ProviderSettings(c.Notes.Provider); !ok {
		return fmt.Errorf("unsupported notes provider: %s", c.Notes.Provider)
	}
	if c.Notes.Timeout <= 0 {
		return fmt.Errorf("notes.timeout must be positive, got %s", c.Notes.Timeout)
	}
	if c.Server.IdleTTL < 0 {
		return fmt.Errorf("server.idle_ttl must not be negative, got %s", c.Server.IdleTTL)
	}
	return nil
}
