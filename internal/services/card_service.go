package services

import (
	"context"

	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/models"
)

const (
	// DefaultCardSearchLimit is the number of summaries a search returns
	DefaultCardSearchLimit = 10

	// DefaultLookupSalesLimit is the number of recent sales a lookup returns
	DefaultLookupSalesLimit = 5
)

// CardService answers search, detail and lookup queries against stored cards
type CardService struct {
	store    *database.Store
	resolver *Resolver
}

// NewCardService creates a new card service
func NewCardService(store *database.Store, resolver *Resolver) *CardService {
	return &CardService{store: store, resolver: resolver}
}

// SearchCards returns matching cards with their grouped prices and estimate
func (s *CardService) SearchCards(ctx context.Context, serialNumber, name string, limit int) ([]models.CardSummary, error) {
	if limit <= 0 {
		limit = DefaultCardSearchLimit
	}

	cards, err := s.store.SearchCards(ctx, models.CardFilter{
		SerialNumber: serialNumber,
		Name:         name,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]models.CardSummary, 0, len(cards))
	for _, card := range cards {
		prices, err := s.groupedPrices(ctx, card.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, models.CardSummary{
			Card:           card,
			Prices:         prices,
			EstimatedValue: EstimateValue(prices),
		})
	}
	return results, nil
}

// GetCardDetails returns the card with prices, sales grouped by source and
// estimate, or nil when the card does not exist.
func (s *CardService) GetCardDetails(ctx context.Context, id uint) (*models.CardDetail, error) {
	card, err := s.store.GetCard(ctx, id)
	if err != nil || card == nil {
		return nil, err
	}

	prices, err := s.groupedPrices(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.FetchSales(ctx, card.ID, 0)
	if err != nil {
		return nil, err
	}

	bySource := make(map[string][]models.SaleRecord)
	for _, sale := range sales {
		bySource[sale.Source] = append(bySource[sale.Source], sale)
	}

	return &models.CardDetail{
		Card:           *card,
		Prices:         prices,
		Sales:          bySource,
		EstimatedValue: EstimateValue(prices),
	}, nil
}

// LookupCard resolves hint to one card and returns its estimate with the
// most recent sales across all sources. It returns nil when nothing matches.
func (s *CardService) LookupCard(ctx context.Context, hint models.CardHint, salesLimit int) (*models.LookupResult, error) {
	if salesLimit <= 0 {
		salesLimit = DefaultLookupSalesLimit
	}

	card, tier, err := s.resolver.Resolve(ctx, hint)
	if err != nil || card == nil {
		return nil, err
	}

	prices, err := s.groupedPrices(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.FetchSales(ctx, card.ID, salesLimit)
	if err != nil {
		return nil, err
	}

	return &models.LookupResult{
		Card:           *card,
		MatchTier:      tier.String(),
		EstimatedValue: EstimateValue(prices),
		Sales:          sales,
	}, nil
}

func (s *CardService) groupedPrices(ctx context.Context, cardID uint) (models.GroupedPrices, error) {
	records, err := s.store.FetchPrices(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return GroupPrices(records), nil
}
