package snapshotstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
)

const addrA = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func writeSnapshot(t *testing.T, dir, address, content string) {
	t.Helper()
	path := filepath.Join(dir, "suilend_"+address[:10]+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := NewFileStore(t.TempDir(), logger.NewSlogAdapter())

	res := store.Load(addrA)

	assert.Equal(t, entity.LendingAbsent, res.Status)
	assert.Empty(t, res.Err)
	assert.Empty(t, res.Deposits)
	assert.Empty(t, res.Borrows)
}

func TestLoadMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, addrA, "{not json at all")
	store := NewFileStore(dir, logger.NewSlogAdapter())

	res := store.Load(addrA)

	assert.Equal(t, entity.LendingInvalid, res.Status)
	assert.NotEmpty(t, res.Err)
}

func TestLoadParsesObligations(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, addrA, `{
		"obligations": [{
			"deposits": [
				{"symbol": "SUI", "decimals": 9, "amountHuman": 12.5},
				{"coinType": {"name": "0x2::usdc::USDC"}, "decimals": 6, "amountRaw": 2500000}
			],
			"borrows": [
				{"symbol": "USDT", "decimals": 6, "amountRaw": "1000000"}
			]
		}]
	}`)
	store := NewFileStore(dir, logger.NewSlogAdapter())

	res := store.Load(addrA)

	require.Equal(t, entity.LendingLoaded, res.Status)
	require.Len(t, res.Deposits, 2)
	require.Len(t, res.Borrows, 1)

	assert.Equal(t, entity.LendingItem{Symbol: "SUI", Decimals: 9, Amount: 12.5}, res.Deposits[0])
	assert.Equal(t, entity.LendingItem{Symbol: "USDC", Decimals: 6, Amount: 2.5}, res.Deposits[1])
	assert.Equal(t, entity.LendingItem{Symbol: "USDT", Decimals: 6, Amount: 1.0}, res.Borrows[0])
}

func TestLoadCoinTypeAsPlainString(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, addrA, `{
		"obligations": [{
			"deposits": [{"coinType": "0x123::cert::CERT", "amountRaw": 3000000000}]
		}]
	}`)
	store := NewFileStore(dir, logger.NewSlogAdapter())

	res := store.Load(addrA)

	require.Equal(t, entity.LendingLoaded, res.Status)
	require.Len(t, res.Deposits, 1)
	assert.Equal(t, "CERT", res.Deposits[0].Symbol)
	assert.Equal(t, 9, res.Deposits[0].Decimals, "decimals default to 9 when absent")
	assert.InDelta(t, 3.0, res.Deposits[0].Amount, 1e-9)
}

func TestSymbolsUnion(t *testing.T) {
	res := entity.LendingResult{
		Status:   entity.LendingLoaded,
		Deposits: []entity.LendingItem{{Symbol: "SUI"}, {Symbol: "USDC"}},
		Borrows:  []entity.LendingItem{{Symbol: "USDC"}, {Symbol: ""}},
	}
	assert.ElementsMatch(t, []string{"SUI", "USDC"}, res.Symbols())
}
