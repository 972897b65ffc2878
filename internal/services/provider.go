package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ajaypar09/Projects/internal/metrics"
)

const (
	// DefaultProviderTimeout bounds every provider request
	DefaultProviderTimeout = 10 * time.Second

	// DefaultProviderRate is the sustained requests per second per provider
	DefaultProviderRate = 5.0
)

// PriceProvider is an external pricing source. Lookup never fails: network,
// auth and decoding problems are logged and reported as no matches.
//
//go:generate mockgen -package=services -destination=mock_provider_test.go -source=provider.go PriceProvider,HTTPClient
type PriceProvider interface {
	Name() string
	IsConfigured() bool
	Lookup(ctx context.Context, name, number string) []ProviderMatch
}

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderMatch is one product returned by a provider. Payload uses the raw
// field names of the provider's field map so it normalizes the same way an
// imported payload does.
type ProviderMatch struct {
	Source      string         `json:"source"`
	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	Number      string         `json:"number,omitempty"`
	URL         string         `json:"url,omitempty"`
	Payload     map[string]any `json:"payload"`
}

// Normalize converts the match payload into price items
func (m ProviderMatch) Normalize() (NormalizedPayload, error) {
	return NormalizeSource(m.Source, m.Payload)
}

// ProviderOption configures a provider's HTTP client.
type ProviderOption func(*providerClient)

// WithBaseURL sets the base URL for the provider API.
func WithBaseURL(baseURL string) ProviderOption {
	return func(c *providerClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for provider requests.
func WithHTTPClient(client HTTPClient) ProviderOption {
	return func(c *providerClient) {
		c.client = client
	}
}

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(c *providerClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the sustained request rate. Non-positive disables limiting.
func WithRateLimit(perSecond float64) ProviderOption {
	return func(c *providerClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// errRateLimited marks a request abandoned while waiting on the rate limiter
var errRateLimited = errors.New("rate limit")

// providerClient is the HTTP plumbing shared by provider adapters
type providerClient struct {
	name    string
	baseURL string
	client  HTTPClient
	timeout time.Duration
	limiter *rate.Limiter
}

func newProviderClient(name, baseURL string, opts []ProviderOption) providerClient {
	c := providerClient{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultProviderTimeout},
		timeout: DefaultProviderTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultProviderRate), 1),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// doJSON sends one request and decodes the JSON response into out. Numbers
// are decoded as json.Number.
func (c *providerClient) doJSON(ctx context.Context, method, reqURL string, header http.Header, body io.Reader, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", errRateLimited, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s API error: status %d", c.name, resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// observe records the outcome of one lookup
func (c *providerClient) observe(start time.Time, matches int, err error) {
	metrics.ProviderLatency.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	result := lookupResult(matches, err)
	if err != nil {
		log.Warn().Err(err).Str("provider", c.name).Str("result", result).Msg("Price lookup failed")
	}
	metrics.ProviderRequestsTotal.WithLabelValues(c.name, result).Inc()
}

func lookupResult(matches int, err error) string {
	switch {
	case errors.Is(err, errRateLimited):
		return "rate_limited"
	case err != nil:
		return "error"
	case matches == 0:
		return "empty"
	}
	return "match"
}

// CachedProvider remembers non-empty lookups for a limited time.
type CachedProvider struct {
	provider PriceProvider
	cache    *expirable.LRU[string, []ProviderMatch]
}

// NewCachedProvider wraps provider with an expiring LRU cache holding at most
// size lookups for ttl.
func NewCachedProvider(provider PriceProvider, size int, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    expirable.NewLRU[string, []ProviderMatch](size, nil, ttl),
	}
}

func (c *CachedProvider) Name() string { return c.provider.Name() }

func (c *CachedProvider) IsConfigured() bool { return c.provider.IsConfigured() }

// Lookup serves repeated queries from the cache. Empty results are not
// cached so a failing provider is retried on the next call.
func (c *CachedProvider) Lookup(ctx context.Context, name, number string) []ProviderMatch {
	key := CardQuery{Name: name, Number: number}.Normalized()
	if matches, ok := c.cache.Get(key); ok {
		metrics.ProviderCacheHits.WithLabelValues(c.Name()).Inc()
		return matches
	}
	metrics.ProviderCacheMisses.WithLabelValues(c.Name()).Inc()

	matches := c.provider.Lookup(ctx, name, number)
	if len(matches) > 0 {
		c.cache.Add(key, matches)
	}
	return matches
}

// Len returns the number of cached lookups
func (c *CachedProvider) Len() int {
	return c.cache.Len()
}
