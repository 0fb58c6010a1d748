package addressloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
)

func writeAddressFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAddressesMergesConfigAndFile(t *testing.T) {
	path := writeAddressFile(t, "0xccc\n0xddd\n")
	l := NewFileLoader(configloader.RunConfig{
		Addresses:       []string{"0xaaa", "0xbbb"},
		AddressFilePath: path,
	}, logger.NewSlogAdapter())

	got, err := l.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb", "0xccc", "0xddd"}, got, "config addresses come first")
}

func TestAddressesSkipsCommentsAndInvalidLines(t *testing.T) {
	path := writeAddressFile(t, "# main wallet\n0xaaa\n\nnot-an-address\n0xbbb\n")
	l := NewFileLoader(configloader.RunConfig{AddressFilePath: path}, logger.NewSlogAdapter())

	got, err := l.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, got)
}

func TestAddressesDedupesAcrossSources(t *testing.T) {
	path := writeAddressFile(t, "0xbbb\n0xaaa\n")
	l := NewFileLoader(configloader.RunConfig{
		Addresses:       []string{"0xaaa"},
		AddressFilePath: path,
	}, logger.NewSlogAdapter())

	got, err := l.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, got)
}

func TestAddressesMissingFileIsNotAnError(t *testing.T) {
	l := NewFileLoader(configloader.RunConfig{
		Addresses:       []string{"0xaaa"},
		AddressFilePath: filepath.Join(t.TempDir(), "missing.txt"),
	}, logger.NewSlogAdapter())

	got, err := l.Addresses()
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa"}, got)
}
