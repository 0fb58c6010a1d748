package entity

// DeFiSection groups an account's protocol exposure. Only lending is
// populated today; additional protocol categories slot in beside it.
type DeFiSection struct {
	Lending LendingSummary `json:"lending"`
}

// AccountValuation is the full valuation of one address for one run.
type AccountValuation struct {
	Address        string         `json:"address"`
	AsOf           string         `json:"as_of"`
	WalletBalances []PricedAmount `json:"wallet_balances"`
	WalletTotalUSD float64        `json:"wallet_total_usd"`
	DeFi           DeFiSection    `json:"defi"`
	FetchErrors    []FetchError   `json:"fetch_errors,omitempty"`
}

// Totals are the grand totals across all accounts, each rounded to six
// decimal places. PortfolioTotal = WalletSum + LendingNet.
type Totals struct {
	WalletSum      float64 `json:"wallet_sum"`
	LendingNet     float64 `json:"lending_net"`
	PortfolioTotal float64 `json:"portfolio_total"`
}

// PortfolioSnapshot is the structured artifact of a run. Accounts preserve
// the caller-supplied address order so consecutive runs diff cleanly.
// PriceFeedOK distinguishes "the feed was unreachable this run" from
// "these symbols simply have no feed mapping".
type PortfolioSnapshot struct {
	DateISO     string             `json:"date_iso"`
	Accounts    []AccountValuation `json:"accounts"`
	Prices      map[string]float64 `json:"prices"`
	PriceFeedOK bool               `json:"price_feed_ok"`
	Totals      Totals             `json:"totals_usd"`
}
