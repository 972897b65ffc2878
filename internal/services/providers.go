package services

import "time"

// ProviderSettings holds credentials and client limits for the built-in
// price providers.
type ProviderSettings struct {
	PriceChartingToken   string
	PriceChartingBaseURL string
	TCGplayerPublicKey   string
	TCGplayerPrivateKey  string
	TCGplayerBaseURL     string

	Timeout       time.Duration
	RatePerSecond float64

	// CacheSize of zero disables lookup caching
	CacheSize int
	CacheTTL  time.Duration
}

// NewProviders builds the PriceCharting and TCGplayer adapters, in that
// order. Providers without credentials are still returned; they report
// IsConfigured() == false and are skipped by callers.
func NewProviders(s ProviderSettings) []PriceProvider {
	common := []ProviderOption{WithTimeout(s.Timeout), WithRateLimit(s.RatePerSecond)}

	providers := []PriceProvider{
		NewPriceChartingProvider(s.PriceChartingToken,
			append(common, WithBaseURL(s.PriceChartingBaseURL))...),
		NewTCGplayerProvider(s.TCGplayerPublicKey, s.TCGplayerPrivateKey,
			append(common, WithBaseURL(s.TCGplayerBaseURL))...),
	}

	if s.CacheSize <= 0 {
		return providers
	}
	for i, p := range providers {
		providers[i] = NewCachedProvider(p, s.CacheSize, s.CacheTTL)
	}
	return providers
}
