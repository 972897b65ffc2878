package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaypar09/Projects/internal/models"
)

func TestEstimateValueEmpty(t *testing.T) {
	assert.Nil(t, EstimateValue(nil))
	assert.Nil(t, EstimateValue(models.GroupedPrices{}))
	assert.Nil(t, EstimateValue(models.GroupedPrices{"A": {}}), "a source without prices is still empty")
}

func TestEstimateValue(t *testing.T) {
	tests := []struct {
		name     string
		prices   models.GroupedPrices
		expected float64
	}{
		{
			name: "mean across sources",
			prices: models.GroupedPrices{
				"A": {"x": {Price: 10}},
				"B": {"y": {Price: 20}},
			},
			expected: 15.0,
		},
		{
			name: "half cent rounds up",
			prices: models.GroupedPrices{
				models.SourcePriceCharting: {"loose_price": {Price: 9.99}, "complete_price": {Price: 15.00}},
			},
			expected: 12.50,
		},
		{
			name: "price types are not weighted",
			prices: models.GroupedPrices{
				"A": {"loose": {Price: 1}, "sealed": {Price: 100}},
				"B": {"market": {Price: 4}},
			},
			expected: 35.0,
		},
		{
			name: "thirds round to cents",
			prices: models.GroupedPrices{
				"A": {"x": {Price: 1}, "y": {Price: 1}, "z": {Price: 2}},
			},
			expected: 1.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateValue(tt.prices)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestGroupPrices(t *testing.T) {
	updated := "2024-01-01"
	grouped := GroupPrices([]models.PriceRecord{
		{Source: "A", PriceType: "x", Value: 1, LastUpdated: &updated},
		{Source: "A", PriceType: "y", Value: 2},
		{Source: "B", PriceType: "x", Value: 3},
	})

	require.Len(t, grouped, 2)
	assert.Equal(t, 1.0, grouped["A"]["x"].Price)
	assert.Equal(t, &updated, grouped["A"]["x"].LastUpdated)
	assert.Equal(t, 2.0, grouped["A"]["y"].Price)
	assert.Equal(t, 3.0, grouped["B"]["x"].Price)
}

func TestMedianPrice(t *testing.T) {
	assert.Nil(t, MedianPrice(nil))

	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"odd count", []float64{10, 12, 9.5, 11, 10.5}, 10.5},
		{"even count", []float64{1, 2, 3, 4}, 2.5},
		{"single", []float64{7.129}, 7.13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MedianPrice(tt.values)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}
}
