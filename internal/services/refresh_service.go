package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/metrics"
	"github.com/ajaypar09/Projects/internal/models"
)

// RefreshResult reports which sources were updated for a card
type RefreshResult struct {
	CardID         uint                 `json:"card_id"`
	Updated        map[string]int       `json:"updated"` // source -> price records written
	Prices         models.GroupedPrices `json:"prices"`
	EstimatedValue *float64             `json:"estimated_value"`
}

// RefreshService stores live provider prices for cards already in the store
type RefreshService struct {
	store     *database.Store
	providers []PriceProvider
}

// NewRefreshService creates a new refresh service
func NewRefreshService(store *database.Store, providers ...PriceProvider) *RefreshService {
	return &RefreshService{store: store, providers: providers}
}

// RefreshCard looks the card up with every configured provider and upserts
// the prices of each provider's first match. It returns nil when the card
// does not exist. Provider failures leave that source untouched.
func (s *RefreshService) RefreshCard(ctx context.Context, cardID uint) (*RefreshResult, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil || card == nil {
		return nil, err
	}

	result := &RefreshResult{CardID: card.ID, Updated: make(map[string]int)}
	for _, p := range s.providers {
		if !p.IsConfigured() {
			continue
		}

		matches := p.Lookup(ctx, card.Name, card.SerialNumber)
		if len(matches) == 0 {
			metrics.PriceRefreshesTotal.WithLabelValues(p.Name(), "no_match").Inc()
			continue
		}

		data, err := matches[0].Normalize()
		if err != nil {
			metrics.PriceRefreshesTotal.WithLabelValues(p.Name(), "failed").Inc()
			log.Warn().Err(err).Str("provider", p.Name()).Uint("card_id", card.ID).Msg("Discarding unusable provider payload")
			continue
		}
		if len(data.Prices) == 0 {
			metrics.PriceRefreshesTotal.WithLabelValues(p.Name(), "no_match").Inc()
			continue
		}

		if err := s.store.UpsertPrices(ctx, card.ID, matches[0].Source, data.Prices); err != nil {
			metrics.PriceRefreshesTotal.WithLabelValues(p.Name(), "failed").Inc()
			return nil, fmt.Errorf("failed to store %s prices: %w", p.Name(), err)
		}
		metrics.PriceRefreshesTotal.WithLabelValues(p.Name(), "updated").Inc()
		result.Updated[matches[0].Source] = len(data.Prices)

		log.Info().
			Str("provider", p.Name()).
			Uint("card_id", card.ID).
			Str("product_id", matches[0].ProductID).
			Int("prices", len(data.Prices)).
			Msg("Refreshed card prices")
	}

	records, err := s.store.FetchPrices(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	result.Prices = GroupPrices(records)
	result.EstimatedValue = EstimateValue(result.Prices)
	return result, nil
}
