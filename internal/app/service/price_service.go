package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/client"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/pkg/metrics"
)

// coingeckoIDs maps wallet symbols (lowercased) to canonical CoinGecko ids.
// The liquid-staking SUI derivatives are priced as SUI itself; symbols with
// no entry here are simply left unpriced.
var coingeckoIDs = map[string]string{
	"sui":   "sui",
	"ssui":  "sui",
	"vsui":  "sui",
	"hasui": "sui",
	"usdc":  "usd-coin",
	"usdt":  "tether",
	"sol":   "solana",
}

// priceServiceImpl implements port.PriceResolver on top of the CoinGecko
// simple price API, with a TTL cache so back-to-back runs reuse one fetch.
type priceServiceImpl struct {
	feedClient client.CoinGeckoClient
	logger     port.Logger
	cfg        *configloader.Config
	idPrices   *cache.Cache // canonical id -> price (float64)
}

// NewPriceService creates a new instance of priceServiceImpl.
func NewPriceService(fc client.CoinGeckoClient, l port.Logger, cfg *configloader.Config) port.PriceResolver {
	ttl := time.Duration(cfg.CoinGecko.CacheTTLMinutes) * time.Minute
	return &priceServiceImpl{
		feedClient: fc,
		logger:     l,
		cfg:        cfg,
		idPrices:   cache.New(ttl, 2*ttl),
	}
}

// Resolve implements port.PriceResolver. It maps the symbol set to canonical
// ids, fetches every id not already cached in one batched request, and keys
// the result by the caller's symbol spelling. A transport failure yields
// whatever the cache still holds (possibly nothing) and ok=false.
func (s *priceServiceImpl) Resolve(ctx context.Context, symbols []string) (map[string]float64, bool) {
	idsBySymbol := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		if id, ok := coingeckoIDs[strings.ToLower(sym)]; ok {
			idsBySymbol[sym] = id
		}
	}
	if len(idsBySymbol) == 0 {
		s.logger.Debug("No symbols with a known price feed mapping", "symbol_count", len(symbols))
		return map[string]float64{}, true
	}

	missing := make(map[string]struct{})
	for _, id := range idsBySymbol {
		if _, found := s.idPrices.Get(id); !found {
			missing[id] = struct{}{}
		}
	}

	feedOK := true
	if len(missing) > 0 {
		ids := make([]string, 0, len(missing))
		for id := range missing {
			ids = append(ids, id)
		}
		sort.Strings(ids) // deterministic request URL

		timeout := time.Duration(s.cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		metrics.PriceFeedRequestsTotal.Inc()
		quotes, err := s.feedClient.GetSimplePrices(fetchCtx, ids, s.cfg.CoinGecko.VsCurrency)
		if err != nil {
			metrics.PriceFeedFailuresTotal.Inc()
			s.logger.Warn("Price feed unreachable, continuing unpriced", "ids", ids, "error", err)
			feedOK = false
		} else {
			for id, quote := range quotes {
				if quote.USD > 0 {
					s.idPrices.SetDefault(id, quote.USD)
				}
			}
		}
	}

	prices := make(map[string]float64, len(idsBySymbol))
	for sym, id := range idsBySymbol {
		if v, found := s.idPrices.Get(id); found {
			if price, ok := v.(float64); ok && price > 0 {
				prices[sym] = price
			}
		}
	}

	s.logger.Info("Price resolution complete",
		"requested_symbols", len(symbols),
		"mapped_symbols", len(idsBySymbol),
		"priced_symbols", len(prices),
		"feed_ok", feedOK)
	return prices, feedOK
}
