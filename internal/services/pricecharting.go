package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ajaypar09/Projects/internal/models"
)

const priceChartingBaseURL = "https://www.pricecharting.com/api"

// priceChartingExtract maps product JSON paths to the raw payload fields of
// the PriceCharting field map. The API reports prices in pennies.
var priceChartingExtract = []struct {
	path  string
	field string
}{
	{`$["loose-price"]`, "loose_price"},
	{`$["cib-price"]`, "cib_price"},
	{`$["new-price"]`, "new_price"},
}

// PriceChartingProvider looks up card prices from the PriceCharting API
type PriceChartingProvider struct {
	providerClient
	token string
}

// NewPriceChartingProvider creates a PriceCharting adapter. Without a token
// the provider reports itself as not configured.
func NewPriceChartingProvider(token string, opts ...ProviderOption) *PriceChartingProvider {
	return &PriceChartingProvider{
		providerClient: newProviderClient(models.SourcePriceCharting, priceChartingBaseURL, opts),
		token:          token,
	}
}

func (p *PriceChartingProvider) Name() string { return models.SourcePriceCharting }

func (p *PriceChartingProvider) IsConfigured() bool { return p.token != "" }

// Lookup searches PriceCharting and returns the first product, if any
func (p *PriceChartingProvider) Lookup(ctx context.Context, name, number string) []ProviderMatch {
	if !p.IsConfigured() {
		return nil
	}

	start := time.Now()
	match, err := p.lookup(ctx, name, number)
	if match == nil {
		p.observe(start, 0, err)
		return nil
	}
	p.observe(start, 1, nil)
	return []ProviderMatch{*match}
}

func (p *PriceChartingProvider) lookup(ctx context.Context, name, number string) (*ProviderMatch, error) {
	query := strings.TrimSpace(name)
	if number = strings.TrimSpace(number); number != "" {
		query += " " + number
	}

	params := url.Values{}
	params.Set("t", p.token)
	params.Set("q", query)
	params.Set("type", "pokemon-card")

	var body any
	if err := p.doJSON(ctx, http.MethodGet, p.baseURL+"/products?"+params.Encode(), nil, nil, &body); err != nil {
		return nil, err
	}

	product, err := jsonpath.Get("$.products[0]", body)
	if err != nil || product == nil {
		// no products
		return nil, nil
	}

	payload := map[string]any{
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	}
	for _, ex := range priceChartingExtract {
		raw, err := jsonpath.Get(ex.path, product)
		if err != nil || raw == nil || raw == "" {
			continue
		}
		dollars, err := penniesToDollars(raw)
		if err != nil {
			log.Warn().Err(err).
				Str("provider", p.name).
				Str("field", ex.field).
				Msg("skipping unusable price field")
			continue
		}
		payload[ex.field] = dollars
	}

	return &ProviderMatch{
		Source:      models.SourcePriceCharting,
		ProductID:   jsonString(product, `$.id`),
		ProductName: jsonString(product, `$["product-name"]`),
		URL:         jsonString(product, `$.url`),
		Number:      number,
		Payload:     payload,
	}, nil
}

// penniesToDollars converts an integer penny amount to dollars
func penniesToDollars(raw any) (float64, error) {
	pennies, err := parsePrice(raw)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(pennies).Shift(-2).Round(currencyPlaces).InexactFloat64(), nil
}

// jsonString reads an optional scalar at path as a string
func jsonString(obj any, path string) string {
	v, err := jsonpath.Get(path, obj)
	if err != nil || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
