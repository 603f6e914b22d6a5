// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/paycalc/internal/amount"
)

type Config struct {
	FeeRate         string   `mapstructure:"fee_rate"`
	DurationMinutes int64    `mapstructure:"duration_minutes"`
	TokenDecimals   int      `mapstructure:"token_decimals"`
	TokenSymbol     string   `mapstructure:"token_symbol"`
	ExpectedAmount  string   `mapstructure:"expected_amount"`
	Mint            string   `mapstructure:"mint"`
	RPCList         []string `mapstructure:"rpc_list"`
	Retries         int      `mapstructure:"retries"`
	DebugLogging    bool     `mapstructure:"debug_logging"`
	LogFile         string   `mapstructure:"log_file"`
}

const (
	DefaultFeeRate         = "100000"
	DefaultDurationMinutes = 10
	DefaultTokenDecimals   = 8
	DefaultTokenSymbol     = "HBAR"
	DefaultExpectedAmount  = "0.600000"
	DefaultRetries         = 3
	DefaultLogFile         = ""

	// MaxTokenDecimals bounds the scale factor to what real tokens use.
	MaxTokenDecimals = 30
)

// LoadConfig reads path when it is not empty, applies PAYCALC_* environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"fee_rate":         DefaultFeeRate,
		"duration_minutes": DefaultDurationMinutes,
		"token_decimals":   DefaultTokenDecimals,
		"token_symbol":     DefaultTokenSymbol,
		"expected_amount":  DefaultExpectedAmount,
		"retries":          DefaultRetries,
		"log_file":         DefaultLogFile,
		"mint":             "",
		"rpc_list":         []string{},
		"debug_logging":    false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PAYCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

// Minutes returns duration_minutes; validateConfig has rejected negatives.
func (c *Config) Minutes() uint64 {
	return uint64(c.DurationMinutes)
}

// Decimals returns token_decimals; validateConfig has bounded it to MaxTokenDecimals.
func (c *Config) Decimals() uint8 {
	return uint8(c.TokenDecimals)
}

// FeeRateInt returns the parsed fee rate.
func (c *Config) FeeRateInt() (*big.Int, error) {
	return amount.ParseFeeRate(c.FeeRate)
}

func validateConfig(cfg *Config) error {
	if _, err := cfg.FeeRateInt(); err != nil {
		return fmt.Errorf("invalid fee_rate: %w", err)
	}
	if cfg.DurationMinutes < 0 {
		return fmt.Errorf("invalid duration_minutes %d", cfg.DurationMinutes)
	}
	if cfg.TokenDecimals < 0 || cfg.TokenDecimals > MaxTokenDecimals {
		return fmt.Errorf("token_decimals %d is outside 0..%d", cfg.TokenDecimals, MaxTokenDecimals)
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.Mint != "" && len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty but mint is set")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

// loadEnvironmentVariables handles keys viper cannot unmarshal from a
// single environment string.
func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	envRPCList := v.GetString("RPC_LIST")
	if envRPCList == "" {
		return
	}
	var cleanRPCs []string
	for _, rpc := range strings.Split(envRPCList, ",") {
		clean := strings.TrimSpace(rpc)
		if clean != "" {
			cleanRPCs = append(cleanRPCs, clean)
		}
	}
	if len(cleanRPCs) > 0 {
		cfg.RPCList = cleanRPCs
	}
}
