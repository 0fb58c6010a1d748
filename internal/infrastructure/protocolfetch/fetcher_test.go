package protocolfetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
)

const fetchAddr = "0x3f1a9c0de4b87f21aa0cc1e94d7b355e9a2f60c8d4be173905a4e8f2c6d1ab42"

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testFetcher(t *testing.T, cfg configloader.ProtocolsConfig) (*Fetcher, string) {
	t.Helper()
	if cfg.RequestTimeoutMillis == 0 {
		cfg.RequestTimeoutMillis = 5000
	}
	cfg.DelayMillis = 1
	dir := t.TempDir()
	return NewFetcher(cfg, dir, testLogger()), dir
}

func TestFetchAllNoAddressesWritesMarker(t *testing.T) {
	f, dir := testFetcher(t, configloader.ProtocolsConfig{})

	require.NoError(t, f.FetchAll(context.Background(), nil))

	data, err := os.ReadFile(filepath.Join(dir, "protocols_error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "no addresses")
}

func TestFetchAllWritesProtocolFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"obligations":[]}`))
	}))
	defer srv.Close()

	f, dir := testFetcher(t, configloader.ProtocolsConfig{
		Endpoints: map[string]string{"suilend": srv.URL + "/account/%s"},
	})

	require.NoError(t, f.FetchAll(context.Background(), []string{fetchAddr}))

	data, err := os.ReadFile(filepath.Join(dir, "suilend_0x3f1a9c0d.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "obligations")
}

func TestFetchAllHTTPFailureWritesErrorFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	f, dir := testFetcher(t, configloader.ProtocolsConfig{
		Endpoints: map[string]string{"cetus": srv.URL + "/account/%s"},
	})

	require.NoError(t, f.FetchAll(context.Background(), []string{fetchAddr}))

	data, err := os.ReadFile(filepath.Join(dir, "cetus_0x3f1a9c0d_error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "HTTP 502")

	_, err = os.Stat(filepath.Join(dir, "cetus_0x3f1a9c0d.json"))
	assert.True(t, os.IsNotExist(err), "no data file on failure")
}

func TestFetchBlockVisionMissingKeyWritesMarker(t *testing.T) {
	f, dir := testFetcher(t, configloader.ProtocolsConfig{})

	require.NoError(t, f.FetchBlockVision(context.Background(), []string{fetchAddr}))

	data, err := os.ReadFile(filepath.Join(dir, "defi_bv_error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "missing BLOCKVISION_API_KEY")
}

func TestFetchBlockVisionSendsKeyAndAddress(t *testing.T) {
	var gotKey, gotAddr string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotAddr = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"usdValue":"12.5"}}`))
	}))
	defer srv.Close()

	f, dir := testFetcher(t, configloader.ProtocolsConfig{
		BlockVisionAPIKey:  "secret",
		BlockVisionBaseURL: srv.URL,
	})

	require.NoError(t, f.FetchBlockVision(context.Background(), []string{fetchAddr}))

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, fetchAddr, gotAddr)

	data, err := os.ReadFile(filepath.Join(dir, "defi_bv_0x3f1a9c0d.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "usdValue")
}
