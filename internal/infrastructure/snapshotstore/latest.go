package snapshotstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pondzashi/SuiPort/internal/domain/entity"
)

const latestFileName = "latest.json"

// SaveLatest writes the snapshot to latest.json in dir, replacing the
// previous run's document. The write goes through a temp file and rename so
// a concurrent reader never sees a half-written document.
func SaveLatest(dir string, snap *entity.PortfolioSnapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	path := filepath.Join(dir, latestFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LoadLatest reads the most recent snapshot from dir. A missing file is
// returned as os.ErrNotExist so callers can distinguish "no run yet" from a
// broken document.
func LoadLatest(dir string) (*entity.PortfolioSnapshot, error) {
	path := filepath.Join(dir, latestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap entity.PortfolioSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &snap, nil
}
