package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ajaypar09/Projects/internal/models"
)

// currencyPlaces is the rounding precision of every estimate
const currencyPlaces = 2

// GroupPrices arranges stored price records by source and price type
func GroupPrices(records []models.PriceRecord) models.GroupedPrices {
	grouped := make(models.GroupedPrices)
	for _, r := range records {
		byType, ok := grouped[r.Source]
		if !ok {
			byType = make(map[string]models.PricePoint)
			grouped[r.Source] = byType
		}
		byType[r.PriceType] = models.PricePoint{
			Price:       r.Value,
			LastUpdated: r.LastUpdated,
		}
	}
	return grouped
}

// EstimateValue returns the mean of every price across all sources and
// price types, rounded to cents. Prices are not weighted by recency, source
// or type. It returns nil when there is nothing to average.
func EstimateValue(prices models.GroupedPrices) *float64 {
	values := prices.Values()
	if len(values) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values)))).Round(currencyPlaces)
	estimate := mean.InexactFloat64()
	return &estimate
}

// MedianPrice returns the median of values rounded to cents, or nil when
// values is empty.
func MedianPrice(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]decimal.Decimal, len(values))
	for i, v := range values {
		sorted[i] = decimal.NewFromFloat(v)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	}
	result := median.Round(currencyPlaces).InexactFloat64()
	return &result
}
