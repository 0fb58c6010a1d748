package snapshotstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
)

func TestSaveLatestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	price := 2.0
	value := 2.0
	snap := &entity.PortfolioSnapshot{
		DateISO: "2026-08-30T12:00:00Z",
		Accounts: []entity.AccountValuation{{
			Address: addrA,
			WalletBalances: []entity.PricedAmount{{
				CoinBalance: entity.CoinBalance{
					CoinType: "0x2::sui::SUI", Symbol: "SUI", Decimals: 9,
					RawBalance: 1000000000, HumanBalance: 1,
				},
				PriceUSD: &price,
				ValueUSD: &value,
			}},
			WalletTotalUSD: 2,
			DeFi:           entity.DeFiSection{Lending: entity.LendingSummary{Items: []entity.LendingPosition{}}},
		}},
		Prices:      map[string]float64{"SUI": 2.0},
		PriceFeedOK: true,
		Totals:      entity.Totals{WalletSum: 2, PortfolioTotal: 2},
	}

	require.NoError(t, SaveLatest(dir, snap))

	got, err := LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestSaveLatestReplacesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveLatest(dir, &entity.PortfolioSnapshot{DateISO: "2026-08-29T12:00:00Z"}))
	require.NoError(t, SaveLatest(dir, &entity.PortfolioSnapshot{DateISO: "2026-08-30T12:00:00Z"}))

	got, err := LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30T12:00:00Z", got.DateISO)

	_, err = os.Stat(filepath.Join(dir, "latest.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file cleaned up by rename")
}

func TestLoadLatestMissingFile(t *testing.T) {
	_, err := LoadLatest(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
