package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ajaypar09/Projects/internal/models"
)

const (
	tcgPlayerBaseURL         = "https://api.tcgplayer.com"
	tcgPlayerPokemonCategory = 3
	tcgPlayerSearchLimit     = 10

	// tcgPlayerTokenSlack renews the bearer token before it actually expires
	tcgPlayerTokenSlack = 60 * time.Second
)

// TCGplayerProvider looks up card prices from the TCGplayer catalog and
// pricing APIs.
type TCGplayerProvider struct {
	providerClient
	publicKey  string
	privateKey string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type tcgTokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

type tcgProductsResponse struct {
	Results []tcgProduct `json:"results"`
}

type tcgProduct struct {
	ProductID    json.Number `json:"productId"`
	Name         string      `json:"name"`
	URL          string      `json:"url"`
	ExtendedData []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"extendedData"`
}

type tcgPricingResponse struct {
	Results []map[string]any `json:"results"`
}

// tcgPricingFields maps TCGplayer pricing fields to the raw payload fields
// of the TCGplayer field map
var tcgPricingFields = []struct {
	apiField string
	field    string
}{
	{"marketPrice", "market_price"},
	{"midPrice", "listed_median"},
	{"directLowPrice", "direct_low"},
}

// NewTCGplayerProvider creates a TCGplayer adapter. Both keys are required
// for the provider to be configured.
func NewTCGplayerProvider(publicKey, privateKey string, opts ...ProviderOption) *TCGplayerProvider {
	return &TCGplayerProvider{
		providerClient: newProviderClient(models.SourceTCGplayer, tcgPlayerBaseURL, opts),
		publicKey:      publicKey,
		privateKey:     privateKey,
	}
}

func (p *TCGplayerProvider) Name() string { return models.SourceTCGplayer }

func (p *TCGplayerProvider) IsConfigured() bool {
	return p.publicKey != "" && p.privateKey != ""
}

// Lookup searches the Pokemon catalog and prices every product found
func (p *TCGplayerProvider) Lookup(ctx context.Context, name, number string) []ProviderMatch {
	if !p.IsConfigured() {
		return nil
	}

	start := time.Now()
	matches, err := p.lookup(ctx, name, number)
	p.observe(start, len(matches), err)
	return matches
}

func (p *TCGplayerProvider) lookup(ctx context.Context, name, number string) ([]ProviderMatch, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "bearer "+token)

	params := url.Values{}
	params.Set("categoryId", strconv.Itoa(tcgPlayerPokemonCategory))
	params.Set("productName", strings.TrimSpace(name))
	params.Set("getExtendedFields", "true")
	params.Set("limit", strconv.Itoa(tcgPlayerSearchLimit))
	if number = strings.TrimSpace(number); number != "" {
		params.Set("productNumber", number)
	}

	var products tcgProductsResponse
	if err := p.doJSON(ctx, http.MethodGet, p.baseURL+"/catalog/products?"+params.Encode(), header, nil, &products); err != nil {
		return nil, err
	}

	matches := make([]ProviderMatch, 0, len(products.Results))
	for _, product := range products.Results {
		id := product.ProductID.String()
		if id == "" || id == "0" {
			continue
		}

		match := ProviderMatch{
			Source:      models.SourceTCGplayer,
			ProductID:   id,
			ProductName: product.Name,
			URL:         product.URL,
			Number:      productNumber(product),
			Payload:     p.fetchPricing(ctx, id, header),
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// fetchPricing returns the raw payload for one product. A pricing failure
// leaves the product without prices.
func (p *TCGplayerProvider) fetchPricing(ctx context.Context, productID string, header http.Header) map[string]any {
	payload := map[string]any{}

	var pricing tcgPricingResponse
	if err := p.doJSON(ctx, http.MethodGet, p.baseURL+"/pricing/product/"+url.PathEscape(productID), header, nil, &pricing); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Str("product_id", productID).Msg("Failed to fetch product pricing")
		return payload
	}
	if len(pricing.Results) == 0 {
		return payload
	}

	first := pricing.Results[0]
	for _, f := range tcgPricingFields {
		if v, ok := first[f.apiField]; ok && v != nil {
			payload[f.field] = v
		}
	}
	payload["last_updated"] = time.Now().UTC().Format(time.RFC3339)
	return payload
}

func productNumber(product tcgProduct) string {
	for _, field := range product.ExtendedData {
		if strings.EqualFold(field.Name, "number") {
			return field.Value
		}
	}
	return ""
}

// authenticate returns a cached bearer token or requests a new one with the
// client credentials grant.
func (p *TCGplayerProvider) authenticate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpiry) {
		return p.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.publicKey)
	form.Set("client_secret", p.privateKey)

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp tcgTokenResponse
	if err := p.doJSON(ctx, http.MethodPost, p.baseURL+"/token", header, strings.NewReader(form.Encode()), &resp); err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("failed to authenticate: empty access token")
	}

	expiresIn := int64(86400)
	if n, err := resp.ExpiresIn.Int64(); err == nil && n > 0 {
		expiresIn = n
	}
	p.token = resp.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - tcgPlayerTokenSlack)
	return p.token, nil
}
