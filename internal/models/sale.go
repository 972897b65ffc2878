package models

// SaleRecord is one historical sale reported by a source. Sales for a
// card and source are always replaced as a group.
type SaleRecord struct {
	ID         uint    `json:"-" gorm:"primaryKey"`
	CardID     uint    `json:"-" gorm:"not null;index:idx_sales_card_source"`
	Source     string  `json:"source" gorm:"not null;index:idx_sales_card_source"`
	SaleDate   *string `json:"date"`
	Price      float64 `json:"price" gorm:"not null"`
	Condition  *string `json:"condition"`
	ListingURL *string `json:"listing_url"`
}

func (SaleRecord) TableName() string {
	return "sales"
}

// SaleItem is a normalized sale taken from a provider payload
type SaleItem struct {
	Date       *string
	Price      float64
	Condition  *string
	ListingURL *string
}
