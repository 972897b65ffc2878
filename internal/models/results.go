package models

// CardSummary is a search hit with its grouped prices and estimate
type CardSummary struct {
	Card           Card          `json:"card"`
	Prices         GroupedPrices `json:"prices"`
	EstimatedValue *float64      `json:"estimated_value"`
}

// CardDetail is the full view of one stored card
type CardDetail struct {
	Card           Card                    `json:"card"`
	Prices         GroupedPrices           `json:"prices"`
	Sales          map[string][]SaleRecord `json:"sales"`
	EstimatedValue *float64                `json:"estimated_value"`
}

// LookupResult is the best match for a lookup hint plus its recent sales
type LookupResult struct {
	Card           Card         `json:"card"`
	MatchTier      string       `json:"match_tier"`
	EstimatedValue *float64     `json:"estimated_value"`
	Sales          []SaleRecord `json:"sales"`
}
