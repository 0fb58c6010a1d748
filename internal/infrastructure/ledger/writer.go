package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

// header is the fixed column set of a per-address ledger file. Existing
// files are appended to, never rewritten, so the column set must stay stable.
var header = []string{
	"date_iso", "address", "coin_type", "symbol", "decimals", "raw_balance", "human_balance",
}

// Writer appends per-coin ledger rows to one CSV file per address. Files are
// named portfolio_<address prefix>.csv under the output directory.
type Writer struct {
	dir    string
	logger port.Logger
}

// NewWriter creates a ledger Writer rooted at dir.
func NewWriter(dir string, l port.Logger) *Writer {
	return &Writer{dir: dir, logger: l}
}

// Append writes one row per wallet coin of every account in the snapshot to
// that account's ledger file, creating the file with a header row when it
// does not exist yet. A failure on one address does not stop the others; the
// first error is returned after all addresses were attempted.
func (w *Writer) Append(snap *entity.PortfolioSnapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory %s: %w", w.dir, err)
	}

	var firstErr error
	for _, acc := range snap.Accounts {
		if err := w.appendAccount(snap.DateISO, acc); err != nil {
			w.logger.Error("Failed to append ledger rows", "address", acc.Address, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (w *Writer) appendAccount(dateISO string, acc entity.AccountValuation) error {
	path := filepath.Join(w.dir, fmt.Sprintf("portfolio_%s.csv", utils.AddrPrefix(acc.Address)))

	writeHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger file %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write ledger header to %s: %w", path, err)
		}
	}

	for _, b := range acc.WalletBalances {
		row := []string{
			dateISO,
			acc.Address,
			b.CoinType,
			b.Symbol,
			strconv.Itoa(b.Decimals),
			strconv.FormatUint(b.RawBalance, 10),
			strconv.FormatFloat(b.HumanBalance, 'f', 8, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write ledger row to %s: %w", path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger file %s: %w", path, err)
	}

	w.logger.Debug("Ledger rows appended", "path", path, "rows", len(acc.WalletBalances))
	return nil
}
