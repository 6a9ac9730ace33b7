package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/junction/internal/models"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.Regtest, cfg.Network)
	assert.EqualValues(t, 20, cfg.MaxAddresses)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JUNCTION_NETWORK", "testnet")
	t.Setenv("JUNCTION_MAX_ADDRESSES", "50")
	t.Setenv("JUNCTION_EFFECT_TIMEOUT", "1500")
	t.Setenv("JUNCTION_LATENCY", "0")
	t.Setenv("JUNCTION_DEMO_ACCOUNTS", "4")
	t.Setenv("JUNCTION_DEMO_BALANCE", "123456")
	t.Setenv("JUNCTION_LOG_DIR", "/tmp/junction-logs")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	assert.Equal(t, models.Testnet, cfg.Network)
	assert.EqualValues(t, 50, cfg.MaxAddresses)
	assert.Equal(t, 1500*time.Millisecond, cfg.EffectTimeout)
	assert.Zero(t, cfg.Latency)
	assert.Equal(t, 4, cfg.DemoAccounts)
	assert.EqualValues(t, 123456, cfg.DemoBalance)
	assert.Equal(t, "/tmp/junction-logs", cfg.LogDir)
	assert.NoError(t, cfg.Validate())
}

func TestUnparsableEnvironmentIsIgnored(t *testing.T) {
	t.Setenv("JUNCTION_NETWORK", "dogecoin")
	t.Setenv("JUNCTION_MAX_ADDRESSES", "-1")
	t.Setenv("JUNCTION_EFFECT_TIMEOUT", "soon")

	cfg := NewConfig()
	cfg.LoadFromEnvironment()

	defaults := NewConfig()
	assert.Equal(t, defaults.Network, cfg.Network)
	assert.Equal(t, defaults.MaxAddresses, cfg.MaxAddresses)
	assert.Equal(t, defaults.EffectTimeout, cfg.EffectTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"unknown network", func(c *Config) { c.Network = models.Network(9) }, "unknown network"},
		{"zero addresses", func(c *Config) { c.MaxAddresses = 0 }, "max addresses"},
		{"negative timeout", func(c *Config) { c.EffectTimeout = -time.Second }, "effect timeout"},
		{"negative latency", func(c *Config) { c.Latency = -time.Second }, "latency"},
		{"negative accounts", func(c *Config) { c.DemoAccounts = -1 }, "demo accounts"},
		{"negative balance", func(c *Config) { c.DemoBalance = -1 }, "demo balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
