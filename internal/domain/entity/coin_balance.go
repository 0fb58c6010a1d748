package entity

// CoinBalance represents a single wallet coin holding, normalized from the raw
// on-chain integer balance into human units.
type CoinBalance struct {
	CoinType     string  `json:"coin_type"`
	Symbol       string  `json:"symbol"`
	Decimals     int     `json:"decimals"`
	RawBalance   uint64  `json:"raw_balance"`
	HumanBalance float64 `json:"human_balance"`
}

// PricedAmount extends a CoinBalance with its USD valuation. PriceUSD and
// ValueUSD are nil together when the symbol could not be priced; a nil price
// never yields a non-nil value.
type PricedAmount struct {
	CoinBalance
	PriceUSD *float64 `json:"usd_price"`
	ValueUSD *float64 `json:"usd_value"`
}
