package port

import (
	"context"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
)

// ValuationService builds the portfolio snapshot for a run.
type ValuationService interface {
	// BuildSnapshot values the given addresses and returns one consistent
	// snapshot document. Per-address and per-coin failures are contained
	// inside the snapshot; the only hard error is an empty address list.
	BuildSnapshot(ctx context.Context, addresses []string) (*entity.PortfolioSnapshot, error)
}
