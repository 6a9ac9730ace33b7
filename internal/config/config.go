package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/kelsos/junction/internal/models"
)

// Config holds all application configuration
type Config struct {
	// Wallet settings
	Network      models.Network
	MaxAddresses uint32

	// Effect settings
	EffectTimeout time.Duration
	Latency       time.Duration

	// Demo wallet settings
	DemoAccounts int
	DemoBalance  btcutil.Amount

	// Logging settings
	LogDir string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Network:       models.Regtest,
		MaxAddresses:  20,
		EffectTimeout: 30 * time.Second,
		Latency:       300 * time.Millisecond,
		DemoAccounts:  2,
		DemoBalance:   btcutil.Amount(5_000_000),
		LogDir:        "logs",
	}
}

// LoadFromEnvironment loads configuration from environment variables.
// Values that fail to parse are ignored and the current value is kept.
func (c *Config) LoadFromEnvironment() {
	if network := os.Getenv("JUNCTION_NETWORK"); network != "" {
		if n, err := models.ParseNetwork(network); err == nil {
			c.Network = n
		}
	}

	if maxAddresses := os.Getenv("JUNCTION_MAX_ADDRESSES"); maxAddresses != "" {
		if m, err := strconv.ParseUint(maxAddresses, 10, 32); err == nil {
			c.MaxAddresses = uint32(m)
		}
	}

	if timeout := os.Getenv("JUNCTION_EFFECT_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			c.EffectTimeout = time.Duration(t) * time.Millisecond
		}
	}

	if latency := os.Getenv("JUNCTION_LATENCY"); latency != "" {
		if l, err := strconv.Atoi(latency); err == nil {
			c.Latency = time.Duration(l) * time.Millisecond
		}
	}

	if accounts := os.Getenv("JUNCTION_DEMO_ACCOUNTS"); accounts != "" {
		if a, err := strconv.Atoi(accounts); err == nil {
			c.DemoAccounts = a
		}
	}

	if balance := os.Getenv("JUNCTION_DEMO_BALANCE"); balance != "" {
		if b, err := strconv.ParseInt(balance, 10, 64); err == nil {
			c.DemoBalance = btcutil.Amount(b)
		}
	}

	if logDir := os.Getenv("JUNCTION_LOG_DIR"); logDir != "" {
		c.LogDir = logDir
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Network.Valid() {
		return fmt.Errorf("unknown network: %d", int(c.Network))
	}

	if c.MaxAddresses == 0 {
		return fmt.Errorf("max addresses must be positive")
	}

	if c.EffectTimeout < 0 {
		return fmt.Errorf("effect timeout must be non-negative, got: %s", c.EffectTimeout)
	}

	if c.Latency < 0 {
		return fmt.Errorf("latency must be non-negative, got: %s", c.Latency)
	}

	if c.DemoAccounts < 0 {
		return fmt.Errorf("demo accounts must be non-negative, got: %d", c.DemoAccounts)
	}

	if c.DemoBalance < 0 {
		return fmt.Errorf("demo balance must be non-negative, got: %s", c.DemoBalance)
	}

	return nil
}
