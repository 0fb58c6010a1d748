package port

import (
	"context"
)

// RawCoinBalance mirrors one entry of the suix_getAllBalances result.
// TotalBalance stays a string on the wire; the normalizer parses it.
type RawCoinBalance struct {
	CoinType     string `json:"coinType"`
	TotalBalance string `json:"totalBalance"`
}

// CoinMetadata mirrors the suix_getCoinMetadata result. The RPC returns null
// for unknown coin types, so callers receive a nil pointer rather than an
// error in that case.
type CoinMetadata struct {
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Name     string `json:"name"`
}

// ChainClient defines the interface for querying balances and coin metadata
// from a ledger node.
type ChainClient interface {
	// GetAllBalances fetches every coin balance held by an address.
	GetAllBalances(ctx context.Context, address string) ([]RawCoinBalance, error)

	// GetCoinMetadata fetches symbol and decimals for a coin type.
	// A nil result with nil error means the node has no metadata for it.
	GetCoinMetadata(ctx context.Context, coinType string) (*CoinMetadata, error)
}
