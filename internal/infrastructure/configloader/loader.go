package configloader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the dashboard HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CoinGeckoConfig holds CoinGecko price feed configuration.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	VsCurrency           string `yaml:"vsCurrency"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
}

// SuiRPCConfig holds fullnode JSON-RPC client configuration. Retry and rate
// limiting are expressed as data so the call policy is testable on its own.
type SuiRPCConfig struct {
	URL                   string  `yaml:"url"`
	CallTimeoutSeconds    int     `yaml:"callTimeoutSeconds"`
	RetryMaxAttempts      int     `yaml:"retryMaxAttempts"`
	RetryBackoffMillis    int64   `yaml:"retryBackoffMillis"`
	RequestsPerSecond     float64 `yaml:"requestsPerSecond"`
	ConnectTimeoutSeconds int     `yaml:"connectTimeoutSeconds"`
}

// RunConfig holds per-run inputs: the address list and output location.
type RunConfig struct {
	Addresses       []string `yaml:"addresses"`
	AddressFilePath string   `yaml:"addressFilePath"`
	OutDir          string   `yaml:"outDir"`
}

// ProtocolsConfig holds the third-party protocol fetcher configuration.
type ProtocolsConfig struct {
	BlockVisionAPIKey    string            `yaml:"blockVisionApiKey"`
	BlockVisionBaseURL   string            `yaml:"blockVisionBaseURL"`
	Endpoints            map[string]string `yaml:"endpoints"`
	RequestTimeoutMillis int64             `yaml:"requestTimeoutMillis"`
	DelayMillis          int64             `yaml:"delayMillis"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
}

// SwaggerConfig toggles the swagger UI on the dashboard server.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the top-level configuration structure. It is loaded once in main
// and passed explicitly into constructors; nothing in the core reads the
// environment directly.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	CoinGecko   CoinGeckoConfig   `yaml:"coingecko"`
	SuiRPC      SuiRPCConfig      `yaml:"suiRpc"`
	Run         RunConfig         `yaml:"run"`
	Protocols   ProtocolsConfig   `yaml:"protocols"`
	Performance PerformanceConfig `yaml:"performance"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
}

// Load reads the YAML configuration file from the given path, unmarshals it,
// applies environment overrides and fills defaults. A missing file is not an
// error: env vars and defaults alone are enough to run.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SUI_RPC_URL"); v != "" {
		cfg.SuiRPC.URL = v
	}
	if v := os.Getenv("SUI_ADDRESSES"); v != "" {
		cfg.Run.Addresses = splitAddresses(v)
	} else if v := os.Getenv("SUI_ADDRESS"); v != "" && len(cfg.Run.Addresses) == 0 {
		cfg.Run.Addresses = splitAddresses(v)
	}
	if v := os.Getenv("OUT_DIR"); v != "" {
		cfg.Run.OutDir = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.CoinGecko.APIKey = v
	}
	if v := os.Getenv("BLOCKVISION_API_KEY"); v != "" {
		cfg.Protocols.BlockVisionAPIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 20000
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.CacheTTLMinutes <= 0 {
		cfg.CoinGecko.CacheTTLMinutes = 10
	}

	if cfg.SuiRPC.URL == "" {
		cfg.SuiRPC.URL = "https://fullnode.mainnet.sui.io:443"
	}
	if cfg.SuiRPC.CallTimeoutSeconds <= 0 {
		cfg.SuiRPC.CallTimeoutSeconds = 30
	}
	if cfg.SuiRPC.ConnectTimeoutSeconds <= 0 {
		cfg.SuiRPC.ConnectTimeoutSeconds = 10
	}
	if cfg.SuiRPC.RetryMaxAttempts <= 0 {
		cfg.SuiRPC.RetryMaxAttempts = 3
	}
	if cfg.SuiRPC.RetryBackoffMillis <= 0 {
		cfg.SuiRPC.RetryBackoffMillis = 1000
	}
	if cfg.SuiRPC.RequestsPerSecond <= 0 {
		cfg.SuiRPC.RequestsPerSecond = 20
	}

	if cfg.Run.OutDir == "" {
		cfg.Run.OutDir = "data"
	}
	if cfg.Run.AddressFilePath == "" {
		cfg.Run.AddressFilePath = "data/addresses.txt"
	}

	if cfg.Protocols.BlockVisionBaseURL == "" {
		cfg.Protocols.BlockVisionBaseURL = "https://api.blockvision.org/v2/sui/account/defiPortfolio"
	}
	if cfg.Protocols.RequestTimeoutMillis <= 0 {
		cfg.Protocols.RequestTimeoutMillis = 30000
	}
	if cfg.Protocols.DelayMillis <= 0 {
		cfg.Protocols.DelayMillis = 250
	}
	if len(cfg.Protocols.Endpoints) == 0 {
		cfg.Protocols.Endpoints = map[string]string{
			"suilend":   "https://api.suilend.finance/v1/account/%s",
			"cetus":     "https://api.cetus.zone/v1/account/%s",
			"aftermath": "https://api.aftermath.finance/v1/account/%s",
		}
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 4
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
}

func splitAddresses(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
