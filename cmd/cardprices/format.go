package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ajaypar09/Projects/internal/models"
)

// formatUSD renders a dollar amount as "$1,234.50"
func formatUSD(amount float64) string {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func formatEstimate(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return formatUSD(*value)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cardHeader(card models.Card) string {
	header := fmt.Sprintf("%s (%s)", card.Name, card.SerialNumber)
	if card.SetName != nil && *card.SetName != "" {
		header += " - " + *card.SetName
	}
	if card.Rarity != nil && *card.Rarity != "" {
		header += " [" + *card.Rarity + "]"
	}
	return header
}

func printPrices(w io.Writer, prices models.GroupedPrices) {
	for _, source := range slices.Sorted(maps.Keys(prices)) {
		fmt.Fprintf(w, "  %s:\n", source)
		byType := prices[source]
		for _, priceType := range slices.Sorted(maps.Keys(byType)) {
			point := byType[priceType]
			updated := "n/a"
			if point.LastUpdated != nil {
				updated = *point.LastUpdated
			}
			fmt.Fprintf(w, "    %s: %s (updated %s)\n", priceType, formatUSD(point.Price), updated)
		}
	}
}

func saleLine(sale models.SaleRecord) string {
	date := "unknown date"
	if sale.SaleDate != nil {
		date = *sale.SaleDate
	}
	line := fmt.Sprintf("%s: %s", date, formatUSD(sale.Price))
	if sale.Condition != nil && *sale.Condition != "" {
		line += " | Condition: " + *sale.Condition
	}
	if sale.ListingURL != nil && *sale.ListingURL != "" {
		line += " | Listing: " + *sale.ListingURL
	}
	return line
}
