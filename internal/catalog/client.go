package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Harvard Art Museums API root
const DefaultBaseURL = "https://api.harvardartmuseums.org"

var (
	// ErrTransport marks network failures and non-200 responses
	ErrTransport = errors.New("catalog transport error")
	// ErrParse marks response bodies that could not be decoded
	ErrParse = errors.New("catalog parse error")
)

// Client represents a Harvard Art Museums object API client
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit limits outgoing requests to rps per second, allowing bursts
// of burst requests.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, burst)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new catalog client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// objectResponse is the envelope returned by the /object endpoint
type objectResponse struct {
	Info struct {
		TotalRecords int `json:"totalrecords"`
	} `json:"info"`
	Records *[]models.ArtworkRecord `json:"records"`
	Error   string                  `json:"error"`
}

// RandomURL builds the request URL for one random public-domain record with an image
func (c *Client) RandomURL() string {
	q := url.Values{}
	q.Set("apikey", c.APIKey)
	q.Set("size", "1")
	q.Set("sort", "random")
	q.Set("hasimage", "1")
	q.Set("q", "imagepermissionlevel:0")
	return fmt.Sprintf("%s/object?%s", c.BaseURL, q.Encode())
}

// FetchRandom fetches one randomly selected record. A nil record with a nil
// error means the catalog answered with an empty record list.
func (c *Client) FetchRandom(ctx context.Context) (*models.ArtworkRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RandomURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch object: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: catalog API returned status %d: %s", ErrTransport, resp.StatusCode, string(body))
	}

	var objResp objectResponse
	if err := json.NewDecoder(resp.Body).Decode(&objResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode object response: %w", ErrParse, err)
	}

	if objResp.Records == nil {
		if objResp.Error != "" {
			return nil, fmt.Errorf("%w: catalog API error: %s", ErrParse, objResp.Error)
		}
		return nil, fmt.Errorf("%w: response has no records field", ErrParse)
	}

	records := *objResp.Records
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
