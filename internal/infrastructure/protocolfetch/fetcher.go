package protocolfetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const userAgent = "sui-portfolio-bot/1.0 (+github-actions)"

// Fetcher pulls per-address position data from third-party protocol APIs and
// writes one JSON file per protocol per address into the output directory.
// Failures become <name>_<prefix>_error.json files instead of aborting the
// run, so downstream tooling can surface them.
type Fetcher struct {
	client *fasthttp.Client
	cfg    configloader.ProtocolsConfig
	outDir string
	log    *logrus.Logger
}

// NewFetcher creates a new Fetcher writing into outDir.
func NewFetcher(cfg configloader.ProtocolsConfig, outDir string, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client: &fasthttp.Client{},
		cfg:    cfg,
		outDir: outDir,
		log:    log,
	}
}

// FetchAll queries every configured protocol endpoint for every address.
// An empty address list produces a single protocols_error.json marker.
func (f *Fetcher) FetchAll(ctx context.Context, addresses []string) error {
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", f.outDir, err)
	}
	if len(addresses) == 0 {
		f.log.Warn("No addresses configured, writing error marker")
		return f.writeJSON("protocols_error.json", map[string]string{"error": "no addresses"})
	}

	protocols := make([]string, 0, len(f.cfg.Endpoints))
	for name := range f.cfg.Endpoints {
		protocols = append(protocols, name)
	}
	sort.Strings(protocols)

	for _, addr := range addresses {
		pref := utils.AddrPrefix(addr)
		for _, proto := range protocols {
			requestURL := fmt.Sprintf(f.cfg.Endpoints[proto], addr)
			entry := f.log.WithFields(logrus.Fields{"protocol": proto, "address": pref})

			body, err := f.fetchJSON(ctx, requestURL, "")
			if err != nil {
				entry.WithError(err).Warn("Protocol fetch failed")
				if werr := f.writeJSON(fmt.Sprintf("%s_%s_error.json", proto, pref),
					map[string]string{"error": err.Error(), "url": requestURL}); werr != nil {
					return werr
				}
			} else {
				entry.Info("Protocol data fetched")
				if werr := f.writeRaw(fmt.Sprintf("%s_%s.json", proto, pref), body); werr != nil {
					return werr
				}
			}

			if err := f.politePause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// FetchBlockVision queries the BlockVision DeFi portfolio API for every
// address. A missing API key is reported the same way as an empty address
// list: a single defi_bv_error.json marker, no hard failure.
func (f *Fetcher) FetchBlockVision(ctx context.Context, addresses []string) error {
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", f.outDir, err)
	}
	if len(addresses) == 0 {
		f.log.Warn("No addresses configured, writing error marker")
		return f.writeJSON("defi_bv_error.json", map[string]string{"error": "no addresses"})
	}
	if f.cfg.BlockVisionAPIKey == "" {
		f.log.Warn("BlockVision API key missing, writing error marker")
		return f.writeJSON("defi_bv_error.json", map[string]string{"error": "missing BLOCKVISION_API_KEY"})
	}

	for _, addr := range addresses {
		pref := utils.AddrPrefix(addr)
		requestURL := fmt.Sprintf("%s?address=%s", f.cfg.BlockVisionBaseURL, url.QueryEscape(addr))
		entry := f.log.WithField("address", pref)

		body, err := f.fetchJSON(ctx, requestURL, f.cfg.BlockVisionAPIKey)
		if err != nil {
			entry.WithError(err).Warn("BlockVision fetch failed")
			if werr := f.writeJSON(fmt.Sprintf("defi_bv_%s_error.json", pref),
				map[string]string{"error": err.Error()}); werr != nil {
				return werr
			}
		} else {
			entry.Info("BlockVision data fetched")
			if werr := f.writeRaw(fmt.Sprintf("defi_bv_%s.json", pref), body); werr != nil {
				return werr
			}
		}

		if err := f.politePause(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *Fetcher) fetchJSON(ctx context.Context, requestURL, apiKey string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgent(userAgent)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	timeout := time.Duration(f.cfg.RequestTimeoutMillis) * time.Millisecond
	if deadline, ok := ctx.Deadline(); ok {
		if err := f.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := f.client.DoTimeout(req, resp, timeout); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	var parsed any
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON from %s: %w", requestURL, err)
	}
	return json.MarshalIndent(parsed, "", "  ")
}

func (f *Fetcher) writeJSON(name string, obj any) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return f.writeRaw(name, data)
}

func (f *Fetcher) writeRaw(name string, data []byte) error {
	path := filepath.Join(f.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// politePause spaces out requests to public APIs.
func (f *Fetcher) politePause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(f.cfg.DelayMillis) * time.Millisecond):
		return nil
	}
}
