package suirpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/pkg/metrics"
)

// CallError wraps a failed fullnode call with its error taxonomy kind so the
// valuation engine can record it at the right granularity.
type CallError struct {
	Method string
	Kind   entity.ErrorKind
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Method, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// ErrorKind reports the taxonomy kind; consumed by the valuation engine
// without importing this package's concrete type.
func (e *CallError) ErrorKind() entity.ErrorKind { return e.Kind }

// Client implements port.ChainClient against a Sui fullnode. All calls share
// one rate limiter so successive requests keep under the public node's
// request-rate limits, and each call carries its own timeout.
type Client struct {
	rpcClient   *rpc.Client
	logger      *zap.Logger
	policy      RetryPolicy
	limiter     *rate.Limiter
	callTimeout time.Duration
}

// NewClient dials the configured fullnode.
func NewClient(cfg configloader.SuiRPCConfig, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeoutSeconds)*time.Second)
	defer cancel()

	rpcClient, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Sui RPC %s: %w", cfg.URL, err)
	}

	return &Client{
		rpcClient: rpcClient,
		logger:    logger.Named("SuiRPCClient"),
		policy: RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseBackoff: time.Duration(cfg.RetryBackoffMillis) * time.Millisecond,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		callTimeout: time.Duration(cfg.CallTimeoutSeconds) * time.Second,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.rpcClient.Close()
}

// GetAllBalances fetches every coin balance held by an address, via
// suix_getAllBalances.
func (c *Client) GetAllBalances(ctx context.Context, address string) ([]port.RawCoinBalance, error) {
	var balances []port.RawCoinBalance
	if err := c.call(ctx, &balances, "suix_getAllBalances", address); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetCoinMetadata fetches symbol and decimals for a coin type via
// suix_getCoinMetadata. The node answers null for unknown coin types; that
// surfaces as (nil, nil).
func (c *Client) GetCoinMetadata(ctx context.Context, coinType string) (*port.CoinMetadata, error) {
	var raw json.RawMessage
	if err := c.call(ctx, &raw, "suix_getCoinMetadata", coinType); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var meta port.CoinMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, &CallError{Method: "suix_getCoinMetadata", Kind: entity.ErrorProtocol, Err: err}
	}
	return &meta, nil
}

// call runs one JSON-RPC method under the retry policy. Transport failures
// are retried with exponential backoff; an explicit RPC error envelope is
// not retried.
func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.RPCRetriesTotal.WithLabelValues(method).Inc()
			select {
			case <-time.After(c.policy.Backoff(attempt - 1)):
			case <-ctx.Done():
				metrics.RPCFailuresTotal.WithLabelValues(method, string(entity.ErrorTransport)).Inc()
				return &CallError{Method: method, Kind: entity.ErrorTransport, Err: ctx.Err()}
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RPCFailuresTotal.WithLabelValues(method, string(entity.ErrorTransport)).Inc()
			return &CallError{Method: method, Kind: entity.ErrorTransport, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		metrics.RPCRequestsTotal.WithLabelValues(method).Inc()
		err := c.rpcClient.CallContext(callCtx, result, method, args...)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			// The node answered with an error envelope; retrying the
			// same request will not change its mind.
			c.logger.Warn("RPC error envelope from fullnode",
				zap.String("method", method),
				zap.Int("code", rpcErr.ErrorCode()),
				zap.Error(err))
			metrics.RPCFailuresTotal.WithLabelValues(method, string(entity.ErrorProtocol)).Inc()
			return &CallError{Method: method, Kind: entity.ErrorProtocol, Err: err}
		}

		c.logger.Warn("RPC call failed, will retry",
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Int("maxAttempts", c.policy.MaxAttempts),
			zap.Error(err))
	}

	metrics.RPCFailuresTotal.WithLabelValues(method, string(entity.ErrorTransport)).Inc()
	return &CallError{Method: method, Kind: entity.ErrorTransport, Err: lastErr}
}
