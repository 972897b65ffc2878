package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ajaypar09/Projects/internal/metrics"
)

// CardQuery is a card to price live, by name and optional card number
type CardQuery struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
}

// ParseCardQuery parses "Name" or "Name#Number"
func ParseCardQuery(entry string) CardQuery {
	name, number, _ := strings.Cut(entry, "#")
	return CardQuery{Name: strings.TrimSpace(name), Number: strings.TrimSpace(number)}
}

// Normalized returns the lower-cased "name#number" form used as a cache key
func (q CardQuery) Normalized() string {
	name := strings.TrimSpace(q.Name)
	if number := strings.TrimSpace(q.Number); number != "" {
		return strings.ToLower(name + "#" + number)
	}
	return strings.ToLower(name)
}

// CardEstimate holds every provider's matches for one query
type CardEstimate struct {
	Query   CardQuery
	Matches map[string][]ProviderMatch // provider name -> matches
}

// AvailablePrices returns every recognized price of every match. Fields
// whose value is not a usable price are skipped.
func (e CardEstimate) AvailablePrices() []float64 {
	var prices []float64
	for _, matches := range e.Matches {
		for _, m := range matches {
			fm, ok := FieldMapFor(m.Source)
			if !ok {
				continue
			}
			for _, field := range fm.Fields {
				raw, ok := m.Payload[field.RawField]
				if !ok || raw == nil {
					continue
				}
				value, err := parsePrice(raw)
				if err != nil {
					continue
				}
				prices = append(prices, value)
			}
		}
	}
	return prices
}

// MedianPrice is the median of all available prices, or nil without prices
func (e CardEstimate) MedianPrice() *float64 {
	return MedianPrice(e.AvailablePrices())
}

// EstimateSummary is the reportable view of a CardEstimate
type EstimateSummary struct {
	Query          string          `json:"query"`
	MedianPrice    *float64        `json:"median_price"`
	ProductMatches map[string]int  `json:"product_matches"`
	ProviderFound  map[string]bool `json:"provider_found"`
}

// Summary reports the median price and per-provider match counts
func (e CardEstimate) Summary() EstimateSummary {
	s := EstimateSummary{
		Query:          e.Query.Normalized(),
		MedianPrice:    e.MedianPrice(),
		ProductMatches: make(map[string]int, len(e.Matches)),
		ProviderFound:  make(map[string]bool, len(e.Matches)),
	}
	for name, matches := range e.Matches {
		s.ProductMatches[name] = len(matches)
		s.ProviderFound[name] = len(matches) > 0
	}
	return s
}

// Estimator prices cards live across every configured provider
type Estimator struct {
	providers []PriceProvider
}

// NewEstimator creates an estimator over providers
func NewEstimator(providers ...PriceProvider) *Estimator {
	return &Estimator{providers: providers}
}

// Providers returns the providers the estimator queries
func (e *Estimator) Providers() []PriceProvider {
	return e.providers
}

// EstimatePrices looks up each query with all configured providers in
// parallel. Unconfigured providers are skipped and failing providers simply
// contribute no matches.
func (e *Estimator) EstimatePrices(ctx context.Context, queries []CardQuery) []CardEstimate {
	estimates := make([]CardEstimate, 0, len(queries))
	for _, q := range queries {
		estimate := CardEstimate{Query: q, Matches: make(map[string][]ProviderMatch)}

		configured := make([]PriceProvider, 0, len(e.providers))
		for _, p := range e.providers {
			if p.IsConfigured() {
				configured = append(configured, p)
			}
		}

		results := make([][]ProviderMatch, len(configured))
		g, gctx := errgroup.WithContext(ctx)
		for i, p := range configured {
			g.Go(func() error {
				results[i] = p.Lookup(gctx, q.Name, q.Number)
				return nil
			})
		}
		_ = g.Wait()
		for i, p := range configured {
			estimate.Matches[p.Name()] = results[i]
		}

		result := "priced"
		if estimate.MedianPrice() == nil {
			result = "no_prices"
		}
		metrics.EstimatesTotal.WithLabelValues(result).Inc()
		estimates = append(estimates, estimate)
	}
	return estimates
}
