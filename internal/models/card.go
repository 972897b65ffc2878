package models

// Card is a collectible tracked by its importer-chosen serial number.
// Prices and sales belong to the card and are removed with it.
type Card struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	SerialNumber string        `json:"serial_number" gorm:"not null;uniqueIndex"`
	Name         string        `json:"name" gorm:"not null;index"`
	SetName      *string       `json:"set_name"`
	Rarity       *string       `json:"rarity"`
	Prices       []PriceRecord `json:"-" gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
	Sales        []SaleRecord  `json:"-" gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE"`
}

func (Card) TableName() string {
	return "cards"
}

// CardFilter narrows a card search. Empty fields match everything.
type CardFilter struct {
	SerialNumber string
	Name         string
	Limit        int

	// FoldSerial makes the serial number match case-insensitive.
	FoldSerial bool

	// ExactSerial and ExactName turn the corresponding substring match into
	// a case-insensitive equality match.
	ExactSerial bool
	ExactName   bool
}

// CardHint carries the user-supplied identifying fields for a lookup.
type CardHint struct {
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
}

// IsEmpty reports whether neither hint field was supplied
func (h CardHint) IsEmpty() bool {
	return h.SerialNumber == "" && h.Name == ""
}
