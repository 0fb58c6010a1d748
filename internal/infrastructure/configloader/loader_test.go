package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, "https://fullnode.mainnet.sui.io:443", cfg.SuiRPC.URL)
	assert.Equal(t, 3, cfg.SuiRPC.RetryMaxAttempts)
	assert.Equal(t, "data", cfg.Run.OutDir)
	assert.Equal(t, "usd", cfg.CoinGecko.VsCurrency)
	assert.Contains(t, cfg.Protocols.Endpoints, "suilend")
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := `
suiRpc:
  url: https://example.org:443
  retryMaxAttempts: 5
run:
  outDir: /tmp/portfolio
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("SUI_ADDRESSES", "0xaaa, 0xbbb ,,")
	t.Setenv("OUT_DIR", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org:443", cfg.SuiRPC.URL)
	assert.Equal(t, 5, cfg.SuiRPC.RetryMaxAttempts)
	assert.Equal(t, "/tmp/portfolio", cfg.Run.OutDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, cfg.Run.Addresses)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("::::not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
