package addressloader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

// FileLoader resolves the address list for a run: addresses from the config
// come first, then addresses from the optional address file, de-duplicated
// in first-seen order.
type FileLoader struct {
	cfg    configloader.RunConfig
	logger port.Logger
}

// NewFileLoader creates a new FileLoader.
func NewFileLoader(cfg configloader.RunConfig, l port.Logger) *FileLoader {
	return &FileLoader{cfg: cfg, logger: l}
}

// Addresses returns the merged, de-duplicated address list. A missing
// address file is fine as long as the config carries addresses; an empty
// combined list is left for the valuation service to reject.
func (l *FileLoader) Addresses() ([]string, error) {
	addresses := append([]string(nil), l.cfg.Addresses...)

	fromFile, err := l.readAddressFile()
	if err != nil {
		return nil, err
	}
	addresses = append(addresses, fromFile...)

	addresses = utils.DedupeAddresses(addresses)
	l.logger.Info("Address list resolved", "count", len(addresses))
	return addresses, nil
}

func (l *FileLoader) readAddressFile() ([]string, error) {
	file, err := os.Open(l.cfg.AddressFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open address file %s: %w", l.cfg.AddressFilePath, err)
	}
	defer file.Close()

	var addresses []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "0x") {
			l.logger.Warn("Skipping invalid address format",
				"file", l.cfg.AddressFilePath, "line_number", lineNum, "address", line)
			continue
		}
		addresses = append(addresses, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning address file %s: %w", l.cfg.AddressFilePath, err)
	}

	l.logger.Debug("Addresses loaded from file", "count", len(addresses), "path", l.cfg.AddressFilePath)
	return addresses, nil
}
