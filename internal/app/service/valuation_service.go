package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/metrics"
	"github.com/pondzashi/SuiPort/internal/pkg/numeric"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

// ErrNoAddresses is the only hard failure of a run: there is nothing to value.
var ErrNoAddresses = errors.New("no addresses to value")

// errorKinder is satisfied by transport-layer errors that carry a failure
// taxonomy kind. Errors without one default to transport.
type errorKinder interface {
	ErrorKind() entity.ErrorKind
}

func errKind(err error) entity.ErrorKind {
	var k errorKinder
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return entity.ErrorTransport
}

// valuationServiceImpl implements port.ValuationService.
type valuationServiceImpl struct {
	chainClient           port.ChainClient
	priceResolver         port.PriceResolver
	lendingStore          port.LendingSnapshotStore
	logger                port.Logger
	maxConcurrentRoutines int
}

// NewValuationService creates a new instance of valuationServiceImpl.
func NewValuationService(
	cc port.ChainClient,
	pr port.PriceResolver,
	ls port.LendingSnapshotStore,
	l port.Logger,
	maxRoutines int,
) port.ValuationService {
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &valuationServiceImpl{
		chainClient:           cc,
		priceResolver:         pr,
		lendingStore:          ls,
		logger:                l,
		maxConcurrentRoutines: maxRoutines,
	}
}

// discoveredAccount holds everything learned about one address before price
// resolution: normalized wallet balances, the lending lookup result, and any
// contained failures.
type discoveredAccount struct {
	address  string
	balances []entity.CoinBalance
	lending  entity.LendingResult
	errs     []entity.FetchError
}

// BuildSnapshot runs the two-phase valuation: discover balances and symbols
// for every address concurrently, then resolve all prices in one batch and
// assemble the snapshot. Per-address and per-coin failures are recorded on
// their owning account and never fail the run.
func (s *valuationServiceImpl) BuildSnapshot(
	ctx context.Context,
	addresses []string,
) (*entity.PortfolioSnapshot, error) {
	start := time.Now()

	addresses = utils.DedupeAddresses(addresses)
	if len(addresses) == 0 {
		s.logger.Error("No addresses provided for valuation run")
		return nil, ErrNoAddresses
	}
	s.logger.Info("Starting valuation run", "addresses", len(addresses))

	results := make([]discoveredAccount, len(addresses))
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrentRoutines)
	for i, addr := range addresses {
		g.Go(func() error {
			results[i] = s.discoverAccount(ctx, addr)
			return nil
		})
	}
	_ = g.Wait()

	symbols := collectSymbols(results)
	prices, feedOK := s.priceResolver.Resolve(ctx, symbols)
	if !feedOK {
		s.logger.Warn("Price feed unreachable, snapshot will carry no prices", "symbols", len(symbols))
	}

	dateISO := time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)

	var walletSum, lendingNet decimal.Decimal
	accounts := make([]entity.AccountValuation, 0, len(results))
	for _, acc := range results {
		av := entity.AccountValuation{
			Address:        acc.address,
			AsOf:           dateISO,
			WalletBalances: make([]entity.PricedAmount, 0, len(acc.balances)),
			FetchErrors:    acc.errs,
		}

		var walletTotal decimal.Decimal
		for _, cb := range acc.balances {
			pa := entity.PricedAmount{CoinBalance: cb}
			if p, ok := prices[cb.Symbol]; ok && p > 0 {
				value := numeric.ValueUSD(numeric.Normalize(cb.RawBalance, cb.Decimals), p)
				v, _ := value.Float64()
				price := p
				pa.PriceUSD = &price
				pa.ValueUSD = &v
				walletTotal = walletTotal.Add(value)
			}
			av.WalletBalances = append(av.WalletBalances, pa)
		}
		av.WalletTotalUSD = roundedFloat(walletTotal)
		walletSum = walletSum.Add(walletTotal)

		av.DeFi.Lending = s.priceLending(acc.lending, prices)
		lendingNet = lendingNet.Add(decimal.NewFromFloat(av.DeFi.Lending.NetUSD))

		accounts = append(accounts, av)
	}

	snapshot := &entity.PortfolioSnapshot{
		DateISO:     dateISO,
		Accounts:    accounts,
		Prices:      prices,
		PriceFeedOK: feedOK,
		Totals: entity.Totals{
			WalletSum:      roundedFloat(walletSum),
			LendingNet:     roundedFloat(lendingNet),
			PortfolioTotal: roundedFloat(walletSum.Add(lendingNet)),
		},
	}

	metrics.SnapshotRunsTotal.Inc()
	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Valuation run complete",
		"accounts", len(accounts),
		"portfolio_total_usd", snapshot.Totals.PortfolioTotal,
		"duration", time.Since(start).String())
	return snapshot, nil
}

// discoverAccount fetches and normalizes one address's wallet balances and
// loads its lending snapshot. Failures are recorded, never returned: a failed
// balance fetch leaves the wallet section empty, a failed metadata lookup
// falls back to the coin type's last segment and nine decimals, and an
// unparseable lending snapshot becomes a snapshot-kind error.
func (s *valuationServiceImpl) discoverAccount(ctx context.Context, address string) discoveredAccount {
	acc := discoveredAccount{address: address}

	raw, err := s.chainClient.GetAllBalances(ctx, address)
	if err != nil {
		s.logger.Error("Failed to fetch balances for address", "address", address, "error", err)
		acc.errs = append(acc.errs, entity.FetchError{
			Address: address,
			Kind:    errKind(err),
			Message: err.Error(),
		})
	} else {
		sort.Slice(raw, func(i, j int) bool { return raw[i].CoinType < raw[j].CoinType })
		for _, rb := range raw {
			acc.balances = append(acc.balances, s.normalizeBalance(ctx, address, rb, &acc.errs))
		}
	}

	acc.lending = s.lendingStore.Load(address)
	if acc.lending.Status == entity.LendingInvalid {
		s.logger.Warn("Lending snapshot unreadable for address", "address", address, "error", acc.lending.Err)
		acc.errs = append(acc.errs, entity.FetchError{
			Address: address,
			Kind:    entity.ErrorSnapshot,
			Message: acc.lending.Err,
		})
	}

	return acc
}

// normalizeBalance turns one raw balance entry into a CoinBalance, resolving
// symbol and decimals from coin metadata when available.
func (s *valuationServiceImpl) normalizeBalance(
	ctx context.Context,
	address string,
	rb port.RawCoinBalance,
	errs *[]entity.FetchError,
) entity.CoinBalance {
	cb := entity.CoinBalance{
		CoinType: rb.CoinType,
		Symbol:   numeric.FallbackSymbol(rb.CoinType),
		Decimals: 9,
	}

	if rb.TotalBalance != "" {
		amount, perr := strconv.ParseUint(rb.TotalBalance, 10, 64)
		if perr != nil {
			s.logger.Warn("Unparseable raw balance, treating as zero",
				"address", address, "coin_type", rb.CoinType, "raw", rb.TotalBalance)
		} else {
			cb.RawBalance = amount
		}
	}

	meta, err := s.chainClient.GetCoinMetadata(ctx, rb.CoinType)
	switch {
	case err != nil:
		s.logger.Warn("Coin metadata lookup failed, using fallback symbol",
			"address", address, "coin_type", rb.CoinType, "error", err)
		*errs = append(*errs, entity.FetchError{
			Address:  address,
			CoinType: rb.CoinType,
			Kind:     errKind(err),
			Message:  err.Error(),
		})
	case meta != nil:
		if meta.Symbol != "" {
			cb.Symbol = meta.Symbol
		}
		if meta.Decimals >= 0 {
			cb.Decimals = meta.Decimals
		}
	}

	cb.HumanBalance, _ = numeric.Normalize(cb.RawBalance, cb.Decimals).Float64()
	return cb
}

// priceLending converts a lending lookup result into a priced summary.
func (s *valuationServiceImpl) priceLending(
	res entity.LendingResult,
	prices map[string]float64,
) entity.LendingSummary {
	summary := entity.LendingSummary{Items: []entity.LendingPosition{}}
	switch res.Status {
	case entity.LendingAbsent:
		return summary
	case entity.LendingInvalid:
		summary.Error = res.Err
		return summary
	}

	var deposits, borrows decimal.Decimal
	for _, it := range res.Deposits {
		pos, value := priceLendingItem(entity.LendingDeposit, it, prices)
		summary.Items = append(summary.Items, pos)
		deposits = deposits.Add(value)
	}
	for _, it := range res.Borrows {
		pos, value := priceLendingItem(entity.LendingBorrow, it, prices)
		summary.Items = append(summary.Items, pos)
		borrows = borrows.Add(value)
	}

	summary.DepositsUSD = roundedFloat(deposits)
	summary.BorrowsUSD = roundedFloat(borrows)
	summary.NetUSD = roundedFloat(deposits.Sub(borrows))
	return summary
}

func priceLendingItem(
	kind entity.LendingKind,
	it entity.LendingItem,
	prices map[string]float64,
) (entity.LendingPosition, decimal.Decimal) {
	pos := entity.LendingPosition{
		Kind:     kind,
		Symbol:   it.Symbol,
		Decimals: it.Decimals,
		Amount:   it.Amount,
	}
	if p, ok := prices[it.Symbol]; ok && p > 0 {
		value := numeric.ValueUSD(decimal.NewFromFloat(it.Amount), p)
		v, _ := value.Float64()
		price := p
		pos.PriceUSD = &price
		pos.ValueUSD = &v
		return pos, value
	}
	return pos, decimal.Zero
}

// collectSymbols gathers the union of wallet and lending symbols across all
// discovered accounts, sorted for a deterministic feed request.
func collectSymbols(results []discoveredAccount) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(sym string) {
		if sym == "" {
			return
		}
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	for _, acc := range results {
		for _, cb := range acc.balances {
			add(cb.Symbol)
		}
		for _, sym := range acc.lending.Symbols() {
			add(sym)
		}
	}
	sort.Strings(out)
	return out
}

func roundedFloat(d decimal.Decimal) float64 {
	f, _ := numeric.RoundUSD(d).Float64()
	return f
}
