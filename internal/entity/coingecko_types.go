package entity

// PriceQuote is one currency quote inside a CoinGecko simple/price response.
type PriceQuote struct {
	USD float64 `json:"usd"`
}

// SimplePriceResponse maps canonical CoinGecko ids to their quotes, e.g.
// {"sui": {"usd": 2.0}, "usd-coin": {"usd": 1.0}}.
type SimplePriceResponse map[string]PriceQuote
