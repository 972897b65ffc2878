package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajaypar09/Projects/internal/models"
)

// FieldMapping maps one raw provider field to a canonical price type
type FieldMapping struct {
	RawField  string
	PriceType string
}

// FieldMap describes how a provider's payload is normalized
type FieldMap struct {
	Source     string
	PayloadKey string // key of the provider object in import records
	Fields     []FieldMapping
}

// ProviderFieldMaps is the static normalization table. Supporting another
// provider means adding a row here.
var ProviderFieldMaps = []FieldMap{
	{
		Source:     models.SourcePriceCharting,
		PayloadKey: "pricecharting",
		Fields: []FieldMapping{
			{RawField: "price", PriceType: "market_price"},
			{RawField: "loose_price", PriceType: "loose_price"},
			{RawField: "cib_price", PriceType: "complete_price"},
			{RawField: "new_price", PriceType: "sealed_price"},
		},
	},
	{
		Source:     models.SourceTCGplayer,
		PayloadKey: "tcgplayer",
		Fields: []FieldMapping{
			{RawField: "market_price", PriceType: "market_price"},
			{RawField: "listed_median", PriceType: "listed_median"},
			{RawField: "high_price", PriceType: "high_price"},
			{RawField: "low_price", PriceType: "low_price"},
			{RawField: "direct_low", PriceType: "direct_low"},
		},
	},
}

// FieldMapFor returns the field map registered for source
func FieldMapFor(source string) (FieldMap, bool) {
	for _, fm := range ProviderFieldMaps {
		if fm.Source == source {
			return fm, true
		}
	}
	return FieldMap{}, false
}

// NormalizedPayload is the canonical form of one provider payload
type NormalizedPayload struct {
	Prices []models.PriceItem
	Sales  []models.SaleItem

	// HasSales is true when the payload carried a recent_sales key,
	// even an empty one.
	HasSales bool
}

// NormalizeSource normalizes payload with the field map registered for source
func NormalizeSource(source string, payload map[string]any) (NormalizedPayload, error) {
	fm, ok := FieldMapFor(source)
	if !ok {
		return NormalizedPayload{}, &models.DataError{Source: source, Field: "source", Value: source, Err: fmt.Errorf("no field map registered")}
	}
	return Normalize(fm, payload)
}

// Normalize converts a raw provider payload into price items and sales.
// The payload's last_updated value applies to every price item. A malformed
// value in a recognized field fails the whole payload.
func Normalize(fm FieldMap, payload map[string]any) (NormalizedPayload, error) {
	var out NormalizedPayload
	if payload == nil {
		return out, nil
	}

	lastUpdated, err := optionalString(fm.Source, "last_updated", payload["last_updated"])
	if err != nil {
		return NormalizedPayload{}, err
	}

	for _, field := range fm.Fields {
		raw, ok := payload[field.RawField]
		if !ok || raw == nil {
			continue
		}
		value, err := parsePrice(raw)
		if err != nil {
			return NormalizedPayload{}, &models.DataError{Source: fm.Source, Field: field.RawField, Value: raw, Err: err}
		}
		out.Prices = append(out.Prices, models.PriceItem{
			PriceType:   field.PriceType,
			Value:       value,
			LastUpdated: lastUpdated,
		})
	}

	rawSales, ok := payload["recent_sales"]
	if !ok {
		return out, nil
	}
	out.HasSales = true
	if rawSales == nil {
		return out, nil
	}

	list, ok := rawSales.([]any)
	if !ok {
		return NormalizedPayload{}, &models.DataError{Source: fm.Source, Field: "recent_sales", Value: rawSales, Err: fmt.Errorf("expected a list")}
	}

	out.Sales = make([]models.SaleItem, 0, len(list))
	for i, entry := range list {
		sale, err := normalizeSale(fm.Source, i, entry)
		if err != nil {
			return NormalizedPayload{}, err
		}
		out.Sales = append(out.Sales, sale)
	}
	return out, nil
}

func normalizeSale(source string, index int, entry any) (models.SaleItem, error) {
	field := fmt.Sprintf("recent_sales[%d]", index)
	obj, ok := entry.(map[string]any)
	if !ok {
		return models.SaleItem{}, &models.DataError{Source: source, Field: field, Value: entry, Err: fmt.Errorf("expected an object")}
	}

	var sale models.SaleItem
	if raw, ok := obj["price"]; ok && raw != nil {
		price, err := parsePrice(raw)
		if err != nil {
			return models.SaleItem{}, &models.DataError{Source: source, Field: field + ".price", Value: raw, Err: err}
		}
		sale.Price = price
	}

	var err error
	if sale.Date, err = optionalString(source, field+".date", obj["date"]); err != nil {
		return models.SaleItem{}, err
	}
	if sale.Condition, err = optionalString(source, field+".condition", obj["condition"]); err != nil {
		return models.SaleItem{}, err
	}
	if sale.ListingURL, err = optionalString(source, field+".listing_url", obj["listing_url"]); err != nil {
		return models.SaleItem{}, err
	}
	return sale, nil
}

// parsePrice accepts JSON numbers and numeric strings
func parsePrice(raw any) (float64, error) {
	var d decimal.Decimal
	var err error

	switch v := raw.(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case uint64:
		d, err = decimal.NewFromString(strconv.FormatUint(v, 10))
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, fmt.Errorf("empty price")
		}
		d, err = decimal.NewFromString(s)
	default:
		return 0, fmt.Errorf("unsupported price type %T", raw)
	}
	if err != nil {
		return 0, fmt.Errorf("not a number: %w", err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price")
	}
	return d.InexactFloat64(), nil
}

func optionalString(source, field string, raw any) (*string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case json.Number:
		s := v.String()
		return &s, nil
	case float64, int, int64, uint64, bool:
		s := fmt.Sprint(v)
		return &s, nil
	case time.Time:
		// YAML decoders turn unquoted dates into timestamps
		s := v.Format(time.RFC3339)
		if v.Equal(v.Truncate(24 * time.Hour)) {
			s = v.Format(time.DateOnly)
		}
		return &s, nil
	default:
		return nil, &models.DataError{Source: source, Field: field, Value: raw, Err: fmt.Errorf("expected a string")}
	}
}
