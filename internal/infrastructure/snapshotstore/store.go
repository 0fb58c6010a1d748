package snapshotstore

import (
	stdjson "encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/pkg/numeric"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultDecimals = 9

// coinTypeRef accepts both snapshot shapes seen in the wild: a plain type
// string or an object carrying the type under "name".
type coinTypeRef struct {
	Name string
}

func (c *coinTypeRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &c.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

type snapshotItem struct {
	Symbol      string         `json:"symbol"`
	CoinType    coinTypeRef    `json:"coinType"`
	Decimals    *int           `json:"decimals"`
	AmountHuman *float64       `json:"amountHuman"`
	AmountRaw   stdjson.Number `json:"amountRaw"`
}

type snapshotObligation struct {
	Deposits []snapshotItem `json:"deposits"`
	Borrows  []snapshotItem `json:"borrows"`
}

type snapshotDocument struct {
	Obligations []snapshotObligation `json:"obligations"`
}

// FileStore implements port.LendingSnapshotStore over per-address JSON files
// written by the external protocol fetcher: <dir>/suilend_<addrprefix>.json.
type FileStore struct {
	dir    string
	logger port.Logger
}

// NewFileStore creates a new FileStore rooted at the given data directory.
func NewFileStore(dir string, logger port.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Load implements port.LendingSnapshotStore. A missing file means the
// address has no recorded lending exposure; a present but unparseable file
// is reported as an invalid result so the rest of the run proceeds.
func (s *FileStore) Load(address string) entity.LendingResult {
	path := filepath.Join(s.dir, fmt.Sprintf("suilend_%s.json", utils.AddrPrefix(address)))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No lending snapshot for address", "address", address, "path", path)
			return entity.LendingResult{Status: entity.LendingAbsent}
		}
		s.logger.Warn("Failed to read lending snapshot", "address", address, "path", path, "error", err)
		return entity.LendingResult{Status: entity.LendingInvalid, Err: err.Error()}
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Malformed lending snapshot", "address", address, "path", path, "error", err)
		return entity.LendingResult{Status: entity.LendingInvalid, Err: err.Error()}
	}

	result := entity.LendingResult{Status: entity.LendingLoaded}
	for _, ob := range doc.Obligations {
		for _, item := range ob.Deposits {
			result.Deposits = append(result.Deposits, convertItem(item))
		}
		for _, item := range ob.Borrows {
			result.Borrows = append(result.Borrows, convertItem(item))
		}
	}

	s.logger.Debug("Lending snapshot loaded",
		"address", address,
		"deposits", len(result.Deposits),
		"borrows", len(result.Borrows))
	return result
}

func convertItem(item snapshotItem) entity.LendingItem {
	symbol := item.Symbol
	if symbol == "" {
		symbol = numeric.FallbackSymbol(item.CoinType.Name)
	}

	decimals := defaultDecimals
	if item.Decimals != nil && *item.Decimals >= 0 {
		decimals = *item.Decimals
	}

	var amount float64
	switch {
	case item.AmountHuman != nil:
		amount = *item.AmountHuman
	case item.AmountRaw != "":
		if raw, err := strconv.ParseUint(item.AmountRaw.String(), 10, 64); err == nil {
			amount, _ = numeric.Normalize(raw, decimals).Float64()
		} else if f, err := item.AmountRaw.Float64(); err == nil {
			// Raw amounts beyond uint64 range arrive as floats; precision
			// loss there is the snapshot producer's, not ours.
			div, _ := numeric.Normalize(1, decimals).Float64()
			amount = f * div
		}
	}

	return entity.LendingItem{Symbol: symbol, Decimals: decimals, Amount: amount}
}
