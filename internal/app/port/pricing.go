package port

import "context"

// PriceResolver maps asset symbols to USD prices via a best-effort external
// feed. Symbols with no feed mapping are silently excluded from the result,
// and a transport failure yields an empty map, never an error: partial
// pricing is strictly better than failing the whole valuation run. The
// second return reports whether the feed itself was reachable, so a caller
// can tell a feed outage apart from unmapped symbols.
type PriceResolver interface {
	Resolve(ctx context.Context, symbols []string) (map[string]float64, bool)
}
