package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"

	"github.com/ajaypar09/Projects/internal/metrics"
	"github.com/ajaypar09/Projects/internal/models"
)

// DefaultResolverPoolLimit bounds how many narrowed candidates are re-ranked
const DefaultResolverPoolLimit = 50

// MatchTier identifies which rule of the lookup cascade picked a card
type MatchTier int

const (
	MatchNone MatchTier = iota
	MatchExactBoth
	MatchExactSerial
	MatchExactName
	MatchPartialSerial
	MatchPartialName
	MatchFallback
)

func (t MatchTier) String() string {
	switch t {
	case MatchExactBoth:
		return "exact_serial_and_name"
	case MatchExactSerial:
		return "exact_serial"
	case MatchExactName:
		return "exact_name"
	case MatchPartialSerial:
		return "partial_serial"
	case MatchPartialName:
		return "partial_name"
	case MatchFallback:
		return "fallback"
	default:
		return "none"
	}
}

// CardSearcher narrows the candidate pool for a lookup
//
//go:generate mockgen -package=services -destination=mock_resolver_test.go -source=resolver.go CardSearcher
type CardSearcher interface {
	SearchCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
}

// foldedHint holds the case-folded hint values compared by each tier
type foldedHint struct {
	serial string
	name   string
}

type matchRule struct {
	tier  MatchTier
	match func(h foldedHint, c models.Card) bool
}

// fold builds a fresh Caser per call since a Caser must not be shared
// between goroutines.
func fold(s string) string {
	return cases.Fold().String(s)
}

// matchRules is evaluated in order; the first rule matching any card wins.
var matchRules = []matchRule{
	{MatchExactBoth, func(h foldedHint, c models.Card) bool {
		return h.serial != "" && h.name != "" && fold(c.SerialNumber) == h.serial && fold(c.Name) == h.name
	}},
	{MatchExactSerial, func(h foldedHint, c models.Card) bool {
		return h.serial != "" && fold(c.SerialNumber) == h.serial
	}},
	{MatchExactName, func(h foldedHint, c models.Card) bool {
		return h.name != "" && fold(c.Name) == h.name
	}},
	{MatchPartialSerial, func(h foldedHint, c models.Card) bool {
		return h.serial != "" && strings.Contains(fold(c.SerialNumber), h.serial)
	}},
	{MatchPartialName, func(h foldedHint, c models.Card) bool {
		return h.name != "" && strings.Contains(fold(c.Name), h.name)
	}},
}

// ResolveCandidates picks one card from pool for hint. Within a tier the
// earliest card in pool order wins. When no tier matches, the first card of
// the pool is returned. An empty pool or hint resolves to nothing.
func ResolveCandidates(hint models.CardHint, pool []models.Card) (*models.Card, MatchTier) {
	if hint.IsEmpty() || len(pool) == 0 {
		return nil, MatchNone
	}

	h := foldedHint{serial: fold(hint.SerialNumber), name: fold(hint.Name)}
	for _, rule := range matchRules {
		for i := range pool {
			if rule.match(h, pool[i]) {
				card := pool[i]
				return &card, rule.tier
			}
		}
	}

	card := pool[0]
	return &card, MatchFallback
}

// Resolver finds the best stored card for loosely specified hints
type Resolver struct {
	searcher  CardSearcher
	poolLimit int
}

// NewResolver creates a resolver. A non-positive poolLimit uses
// DefaultResolverPoolLimit.
func NewResolver(searcher CardSearcher, poolLimit int) *Resolver {
	if poolLimit <= 0 {
		poolLimit = DefaultResolverPoolLimit
	}
	return &Resolver{searcher: searcher, poolLimit: poolLimit}
}

// Resolve narrows the stored cards by substring search and ranks the pool.
// It returns nil when no hint is given or nothing matches.
func (r *Resolver) Resolve(ctx context.Context, hint models.CardHint) (*models.Card, MatchTier, error) {
	hint.SerialNumber = strings.TrimSpace(hint.SerialNumber)
	hint.Name = strings.TrimSpace(hint.Name)
	if hint.IsEmpty() {
		return nil, MatchNone, nil
	}

	pool, err := r.narrow(ctx, hint)
	if err != nil {
		return nil, MatchNone, err
	}

	card, tier := ResolveCandidates(hint, pool)
	metrics.ResolverMatchesTotal.WithLabelValues(tier.String()).Inc()
	if card != nil {
		log.Debug().
			Str("serial_number", hint.SerialNumber).
			Str("name", hint.Name).
			Int("pool", len(pool)).
			Str("tier", tier.String()).
			Uint("card_id", card.ID).
			Msg("resolved card")
	}
	return card, tier, nil
}

// narrow searches with both hints combined and keeps the pool in store
// order. A pool cut off at the limit may have dropped cards that match a hint
// exactly, so those are looked up separately and merged back in.
func (r *Resolver) narrow(ctx context.Context, hint models.CardHint) ([]models.Card, error) {
	base := models.CardFilter{
		SerialNumber: hint.SerialNumber,
		Name:         hint.Name,
		Limit:        r.poolLimit,
		FoldSerial:   true,
	}

	pool, err := r.searcher.SearchCards(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to narrow candidates: %w", err)
	}
	if len(pool) < r.poolLimit {
		return pool, nil
	}

	var exact []models.CardFilter
	if hint.SerialNumber != "" && hint.Name != "" {
		f := base
		f.ExactSerial, f.ExactName = true, true
		exact = append(exact, f)
	}
	if hint.SerialNumber != "" {
		f := base
		f.ExactSerial = true
		exact = append(exact, f)
	}
	if hint.Name != "" {
		f := base
		f.ExactName = true
		exact = append(exact, f)
	}

	seen := make(map[uint]bool, len(pool))
	for _, c := range pool {
		seen[c.ID] = true
	}
	merged := false
	for _, f := range exact {
		cards, err := r.searcher.SearchCards(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to narrow candidates: %w", err)
		}
		for _, c := range cards {
			if !seen[c.ID] {
				seen[c.ID] = true
				pool = append(pool, c)
				merged = true
			}
		}
	}
	if merged {
		sort.SliceStable(pool, func(i, j int) bool {
			if pool[i].Name != pool[j].Name {
				return pool[i].Name < pool[j].Name
			}
			return pool[i].ID < pool[j].ID
		})
	}
	return pool, nil
}
