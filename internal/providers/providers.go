// Package providers defines the text-completion contract shared by the LLM
// backends used for curator notes.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotConfigured is returned when a provider lacks a required setting
var ErrNotConfigured = errors.New("provider not configured")

// Config is one completion request
type Config struct {
	Model       string
	Temperature float64
	// System carries the standing instructions; Prompt the artwork facts.
	System string
	Prompt string
	// MaxTokens caps the reply length. Zero leaves it to the provider.
	MaxTokens int
}

// Provider completes a prompt with an LLM
type Provider interface {
	Complete(ctx context.Context, config Config) (string, error)
}

// StatusError builds an error from a non-200 provider response, keeping the
// start of the body for diagnosis.
func StatusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s returned status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
}
