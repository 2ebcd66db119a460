package config

import (
	"fmt"
	"strconv"
	"time"

	"dexa-swap/pkg/chains"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL        = "https://api.metadexa.io/v1.0"
	DefaultPollInterval   = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRequestTimeout = 10 * time.Second
)

// Config holds the application configuration
type Config struct {
	BaseURL        string
	ChainID        int64
	Account        string
	PrivateKey     string
	Affiliate      string
	PollInterval   time.Duration
	MaxRetries     int
	RequestTimeout time.Duration
	LogLevel       string
	SettingsPath   string
	MetricsAddr    string
	RPCURL         string
	RPCURLs        map[int64]string
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".dexa-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Read from environment variables
	viper.SetEnvPrefix("DEXA_SWAP")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	return FromViper(viper.GetViper())
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		BaseURL:        v.GetString("base_url"),
		ChainID:        v.GetInt64("chain_id"),
		Account:        v.GetString("account"),
		PrivateKey:     v.GetString("private_key"),
		Affiliate:      v.GetString("affiliate"),
		PollInterval:   v.GetDuration("poll_interval"),
		MaxRetries:     v.GetInt("max_retries"),
		RequestTimeout: v.GetDuration("request_timeout"),
		LogLevel:       v.GetString("log_level"),
		SettingsPath:   v.GetString("settings_path"),
		MetricsAddr:    v.GetString("metrics_addr"),
		RPCURL:         v.GetString("rpc_url"),
		RPCURLs:        make(map[int64]string),
	}

	for key, url := range v.GetStringMapString("rpc_urls") {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("rpc_urls: invalid chain id %q", key)
		}
		cfg.RPCURLs[id] = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("chain_id", chains.Mainnet)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("log_level", "warn")
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !chains.IsSupported(c.ChainID) {
		return fmt.Errorf("chain_id %d is not supported", c.ChainID)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Account != "" && !common.IsHexAddress(c.Account) {
		return fmt.Errorf("account %q is not a valid address", c.Account)
	}
	if c.Affiliate != "" && !common.IsHexAddress(c.Affiliate) {
		return fmt.Errorf("affiliate %q is not a valid address", c.Affiliate)
	}
	return nil
}

// RequireAccount fails when no account is configured
func (c *Config) RequireAccount() error {
	if c.Account == "" {
		return fmt.Errorf("account not found. Please set DEXA_SWAP_ACCOUNT environment variable or add account to .dexa-swap.yaml")
	}
	return nil
}

// RPCFor returns the RPC endpoint of chainID
func (c *Config) RPCFor(chainID int64) (string, error) {
	if url, ok := c.RPCURLs[chainID]; ok && url != "" {
		return url, nil
	}
	if chainID == c.ChainID && c.RPCURL != "" {
		return c.RPCURL, nil
	}
	return "", fmt.Errorf("RPC URL not configured for chain %d. Set rpc_urls.%d in .dexa-swap.yaml", chainID, chainID)
}
