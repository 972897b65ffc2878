package models

// Built-in price sources
const (
	SourcePriceCharting = "PriceCharting"
	SourceTCGplayer     = "TCGplayer"
)

// PriceRecord stores one price point per card, source and price type
type PriceRecord struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CardID      uint    `json:"card_id" gorm:"not null;uniqueIndex:idx_card_source_type"`
	Source      string  `json:"source" gorm:"not null;uniqueIndex:idx_card_source_type"`
	PriceType   string  `json:"price_type" gorm:"not null;uniqueIndex:idx_card_source_type"`
	Value       float64 `json:"price_value" gorm:"column:price_value;not null"`
	LastUpdated *string `json:"last_updated"`
}

func (PriceRecord) TableName() string {
	return "prices"
}

// PriceItem is a normalized price tuple produced from a provider payload
type PriceItem struct {
	PriceType   string
	Value       float64
	LastUpdated *string
}

// PricePoint is a single grouped price as exposed to callers
type PricePoint struct {
	Price       float64 `json:"price"`
	LastUpdated *string `json:"last_updated"`
}

// GroupedPrices maps source -> price type -> price point
type GroupedPrices map[string]map[string]PricePoint

// Values flattens every price across sources and price types.
// Order is unspecified.
func (g GroupedPrices) Values() []float64 {
	var values []float64
	for _, byType := range g {
		for _, point := range byType {
			values = append(values, point.Price)
		}
	}
	return values
}
