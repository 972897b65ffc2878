package database

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajaypar09/Projects/internal/models"
)

const (
	// DefaultSearchLimit bounds SearchCards when no limit is given
	DefaultSearchLimit = 25
	// DefaultSalesLimit bounds FetchSales when no limit is given
	DefaultSalesLimit = 20
)

// Store is the durable keyed storage for cards, their prices and their
// sales. Every method is a single statement or a single transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection pool
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to one database transaction.
// Any error returned by fn rolls back every write made through it.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// UpsertCard inserts a card or overwrites the name, set and rarity of the
// card with the same serial number. It returns the card's id.
func (s *Store) UpsertCard(ctx context.Context, serialNumber, name string, setName, rarity *string) (uint, error) {
	if serialNumber == "" {
		return 0, &models.ValidationError{Field: "serial_number", Message: "is required"}
	}
	if name == "" {
		return 0, &models.ValidationError{Field: "name", Message: "is required"}
	}

	card := models.Card{
		SerialNumber: serialNumber,
		Name:         name,
		SetName:      setName,
		Rarity:       rarity,
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "serial_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "set_name", "rarity"}),
		}).Create(&card).Error
		if err != nil {
			return err
		}

		// The conflict path does not reliably report the existing id
		var stored models.Card
		if err := tx.Select("id").Where("serial_number = ?", serialNumber).Take(&stored).Error; err != nil {
			return err
		}
		id = stored.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert card %s: %w", serialNumber, err)
	}
	return id, nil
}

// UpsertPrices writes a batch of price items for one card and source.
// Existing (card, source, price type) rows are overwritten. The whole batch
// is validated before anything is written.
func (s *Store) UpsertPrices(ctx context.Context, cardID uint, source string, items []models.PriceItem) error {
	if len(items) == 0 {
		return nil
	}
	if source == "" {
		return &models.DataError{Field: "source", Value: source, Err: fmt.Errorf("source is required")}
	}

	records := make([]models.PriceRecord, 0, len(items))
	for _, item := range items {
		if item.PriceType == "" {
			return &models.DataError{Source: source, Field: "price_type", Value: item.PriceType, Err: fmt.Errorf("price type is required")}
		}
		if math.IsNaN(item.Value) || math.IsInf(item.Value, 0) || item.Value < 0 {
			return &models.DataError{Source: source, Field: item.PriceType, Value: item.Value, Err: fmt.Errorf("price must be a non-negative amount")}
		}
		records = append(records, models.PriceRecord{
			CardID:      cardID,
			Source:      source,
			PriceType:   item.PriceType,
			Value:       item.Value,
			LastUpdated: item.LastUpdated,
		})
	}

	// Bulk upsert: insert or update on conflict with unique index (card_id, source, price_type)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}, {Name: "source"}, {Name: "price_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_value", "last_updated"}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to save prices for card %d: %w", cardID, err)
	}
	return nil
}

// ReplaceSales deletes every sale of the card for source and inserts sales
// in their place. An empty list clears the source's sales.
func (s *Store) ReplaceSales(ctx context.Context, cardID uint, source string, sales []models.SaleItem) error {
	records := make([]models.SaleRecord, 0, len(sales))
	for _, sale := range sales {
		records = append(records, models.SaleRecord{
			CardID:     cardID,
			Source:     source,
			SaleDate:   sale.Date,
			Price:      sale.Price,
			Condition:  sale.Condition,
			ListingURL: sale.ListingURL,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ? AND source = ?", cardID, source).Delete(&models.SaleRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s sales for card %d: %w", source, cardID, err)
	}
	return nil
}

// SearchCards returns cards matching every non-empty filter field, ordered
// by name. Both filters are substring matches unless marked exact; the name
// match ignores case.
func (s *Store) SearchCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	query := s.db.WithContext(ctx).Model(&models.Card{})

	if filter.SerialNumber != "" {
		switch {
		case filter.ExactSerial:
			query = query.Where("LOWER(serial_number) = ?", strings.ToLower(filter.SerialNumber))
		case filter.FoldSerial:
			query = query.Where(`LOWER(serial_number) LIKE ? ESCAPE '\'`, likePattern(strings.ToLower(filter.SerialNumber)))
		default:
			query = query.Where("instr(serial_number, ?) > 0", filter.SerialNumber)
		}
	}
	if filter.Name != "" {
		if filter.ExactName {
			query = query.Where("LOWER(name) = ?", strings.ToLower(filter.Name))
		} else {
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(strings.ToLower(filter.Name)))
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var cards []models.Card
	if err := query.Order("name ASC").Order("id ASC").Limit(limit).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}
	return cards, nil
}

// FetchPrices returns every stored price of a card
func (s *Store) FetchPrices(ctx context.Context, cardID uint) ([]models.PriceRecord, error) {
	var prices []models.PriceRecord
	err := s.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("source ASC").Order("price_type ASC").
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for card %d: %w", cardID, err)
	}
	return prices, nil
}

// FetchSales returns a card's sales: dated sales first, newest first, then
// highest price first.
func (s *Store) FetchSales(ctx context.Context, cardID uint, limit int) ([]models.SaleRecord, error) {
	if limit <= 0 {
		limit = DefaultSalesLimit
	}

	var sales []models.SaleRecord
	err := s.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("(sale_date IS NULL) ASC, sale_date DESC, price DESC, id ASC").
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales for card %d: %w", cardID, err)
	}
	return sales, nil
}

// GetCard returns the card with id, or nil when there is none
func (s *Store) GetCard(ctx context.Context, id uint) (*models.Card, error) {
	var cards []models.Card
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return &cards[0], nil
}

// DeleteCard removes a card together with its prices and sales.
// It reports whether a card was deleted.
func (s *Store) DeleteCard(ctx context.Context, id uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Card{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete card %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountCards returns the number of stored cards
func (s *Store) CountCards(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Card{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
