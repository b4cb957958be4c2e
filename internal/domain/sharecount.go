package domain

// ShareStats carries the optional share-count fields a market-data
// provider may expose. Nil means the provider omitted the field. Field
// naming varies across provider versions, which is why both
// SharesOutstanding and TotalSharesOutstanding exist.
type ShareStats struct {
	SharesOutstanding      *int64   `json:"shares_outstanding,omitempty"`
	TotalSharesOutstanding *int64   `json:"total_shares_outstanding,omitempty"`
	FloatShares            *int64   `json:"float_shares,omitempty"`
	MarketCap              *float64 `json:"market_cap,omitempty"`
	CurrentPrice           *float64 `json:"current_price,omitempty"`
}

// ShareCount is one resolved total-shares value. Shares is 0 when every
// candidate was exhausted; Source names the candidate that won, or
// "none". Percentage math treats 0 as "unknown", never as a divisor.
type ShareCount struct {
	Ticker string `json:"ticker"`
	Shares int64  `json:"shares"`
	Source string `json:"source"`
}
