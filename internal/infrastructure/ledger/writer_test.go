package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
)

const ledgerAddr = "0x3f1a9c0de4b87f21aa0cc1e94d7b355e9a2f60c8d4be173905a4e8f2c6d1ab42"

func snapshotWithBalances(dateISO string, balances ...entity.PricedAmount) *entity.PortfolioSnapshot {
	return &entity.PortfolioSnapshot{
		DateISO: dateISO,
		Accounts: []entity.AccountValuation{
			{Address: ledgerAddr, WalletBalances: balances},
		},
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewSlogAdapter())

	snap := snapshotWithBalances("2026-08-30T12:00:00Z", entity.PricedAmount{
		CoinBalance: entity.CoinBalance{
			CoinType:     "0x2::sui::SUI",
			Symbol:       "SUI",
			Decimals:     9,
			RawBalance:   1234567890,
			HumanBalance: 1.23456789,
		},
	})
	require.NoError(t, w.Append(snap))

	rows := readRows(t, filepath.Join(dir, "portfolio_0x3f1a9c0d.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{
		"2026-08-30T12:00:00Z", ledgerAddr, "0x2::sui::SUI", "SUI", "9",
		"1234567890", "1.23456789",
	}, rows[1])
}

func TestAppendDoesNotRepeatHeader(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewSlogAdapter())

	balance := entity.PricedAmount{CoinBalance: entity.CoinBalance{
		CoinType: "0x2::sui::SUI", Symbol: "SUI", Decimals: 9, RawBalance: 1000000000, HumanBalance: 1,
	}}
	require.NoError(t, w.Append(snapshotWithBalances("2026-08-29T12:00:00Z", balance)))
	require.NoError(t, w.Append(snapshotWithBalances("2026-08-30T12:00:00Z", balance)))

	rows := readRows(t, filepath.Join(dir, "portfolio_0x3f1a9c0d.csv"))
	require.Len(t, rows, 3, "one header plus one row per run")
	assert.Equal(t, "2026-08-29T12:00:00Z", rows[1][0])
	assert.Equal(t, "2026-08-30T12:00:00Z", rows[2][0])
}

func TestAppendFormatsHumanBalanceEightPlaces(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewSlogAdapter())

	snap := snapshotWithBalances("2026-08-30T12:00:00Z", entity.PricedAmount{
		CoinBalance: entity.CoinBalance{
			CoinType: "0xdba::coin::USDC", Symbol: "USDC", Decimals: 6,
			RawBalance: 2500000, HumanBalance: 2.5,
		},
	})
	require.NoError(t, w.Append(snap))

	rows := readRows(t, filepath.Join(dir, "portfolio_0x3f1a9c0d.csv"))
	assert.Equal(t, "2.50000000", rows[1][6])
}

func TestAppendCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, logger.NewSlogAdapter())

	require.NoError(t, w.Append(snapshotWithBalances("2026-08-30T12:00:00Z")))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
