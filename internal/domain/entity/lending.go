package entity

// LendingKind distinguishes deposit and borrow line items.
type LendingKind string

const (
	LendingDeposit LendingKind = "deposit"
	LendingBorrow  LendingKind = "borrow"
)

// LendingItem is a raw lending line item as parsed from a protocol snapshot
// file, before price resolution. Amount is in human units.
type LendingItem struct {
	Symbol   string  `json:"symbol"`
	Decimals int     `json:"decimals"`
	Amount   float64 `json:"amount"`
}

// LendingStatus tags the outcome of looking up a lending snapshot for an
// address: no file, a parsed file, or a file that could not be parsed.
type LendingStatus int

const (
	LendingAbsent LendingStatus = iota
	LendingLoaded
	LendingInvalid
)

// LendingResult is the snapshot-store lookup result for one address.
// Deposits and Borrows are only meaningful when Status is LendingLoaded;
// Err carries the parse failure reason when Status is LendingInvalid.
type LendingResult struct {
	Status   LendingStatus
	Deposits []LendingItem
	Borrows  []LendingItem
	Err      string
}

// Symbols returns the set of non-empty symbols across deposits and borrows.
func (r LendingResult) Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, items := range [][]LendingItem{r.Deposits, r.Borrows} {
		for _, it := range items {
			if it.Symbol == "" {
				continue
			}
			if _, ok := seen[it.Symbol]; ok {
				continue
			}
			seen[it.Symbol] = struct{}{}
			out = append(out, it.Symbol)
		}
	}
	return out
}

// LendingPosition is a priced lending line item in the final snapshot.
type LendingPosition struct {
	Kind     LendingKind `json:"kind"`
	Symbol   string      `json:"symbol"`
	Decimals int         `json:"decimals"`
	Amount   float64     `json:"amount"`
	PriceUSD *float64    `json:"usd_price"`
	ValueUSD *float64    `json:"usd_value"`
}

// LendingSummary aggregates an address's lending exposure. A missing snapshot
// yields the zero summary with empty Items and no Error; an unparseable
// snapshot sets Error and leaves the numeric fields at zero.
type LendingSummary struct {
	DepositsUSD float64           `json:"deposits_usd"`
	BorrowsUSD  float64           `json:"borrows_usd"`
	NetUSD      float64           `json:"net_usd"`
	Items       []LendingPosition `json:"items"`
	Error       string            `json:"error,omitempty"`
}
