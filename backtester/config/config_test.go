package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `{
 "nickname": "test",
 "strategy-settings": [
  {"name": "SMA_5"},
  {"name": "rsi", "custom-settings": {"rsi-period": 7, "rsi-low": 25, "rsi-high": 75}}
 ],
 "portfolio-settings": {"initial-capital": 5000, "sizing-method": "fraction", "fraction": 0.5, "allow-short": true},
 "exchange-settings": {"commission-model": "per-share", "commission-value": 0.01, "slippage-basis-points": 10, "maximum-volume-ratio": 0.25},
 "database-settings": {"enabled": true, "path": "results.db"}
}`

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig([]byte(testConfig))
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Nickname)
	require.Len(t, cfg.StrategySettings, 2)
	assert.Equal(t, "SMA_5", cfg.StrategySettings[0].Name)
	assert.Equal(t, "rsi", cfg.StrategySettings[1].Name)
	assert.EqualValues(t, 7, cfg.StrategySettings[1].CustomSettings["rsi-period"])
	assert.Equal(t, 5000.0, cfg.PortfolioSettings.InitialCapital)
	assert.Equal(t, "fraction", cfg.PortfolioSettings.SizingMethod)
	assert.Equal(t, int64(DefaultFixedQuantity), cfg.PortfolioSettings.FixedQuantity)
	assert.True(t, cfg.PortfolioSettings.AllowShort)
	assert.Equal(t, commission.PerShareModel, cfg.ExchangeSettings.CommissionModel)
	assert.Equal(t, 0.25, cfg.ExchangeSettings.MaximumVolumeRatio)
	assert.True(t, cfg.DatabaseSettings.Enabled)
	assert.Equal(t, "results.db", cfg.DatabaseSettings.Path)
	assert.NoError(t, cfg.Validate())

	_, err = LoadConfig([]byte("{"))
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig([]byte(`{"strategy-settings": [{"name": "sma"}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultNickname, cfg.Nickname)
	assert.Equal(t, DefaultInitialCapital, cfg.PortfolioSettings.InitialCapital)
	assert.Equal(t, DefaultSizingMethod, cfg.PortfolioSettings.SizingMethod)
	assert.Equal(t, DefaultCommissionModel, cfg.ExchangeSettings.CommissionModel)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabaseSettings.Path)
	assert.False(t, cfg.DatabaseSettings.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	_, err := ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Nickname)

	cfg, err = ReadConfigFromFile(filepath.Join("examples", "sma-aapl.json"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.LogSettings)
	assert.Equal(t, "INFO|WARN|ERROR", cfg.LogSettings.Level)
	assert.Equal(t, filepath.Join("..", "data", "csv", "testdata", "aapl.csv"), cfg.DataSettings.CSVPath)
	_, err = os.Stat(cfg.DataSettings.CSVPath)
	assert.NoError(t, err, "csv-path resolves from the config file's directory")
}

func TestReadConfigFromFileAbsoluteCSV(t *testing.T) {
	t.Parallel()
	csvPath, err := filepath.Abs(filepath.Join("..", "data", "csv", "testdata", "aapl.csv"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{"strategy-settings":[{"name":"sma"}],"data-settings":{"csv-path":` + strconv.Quote(csvPath) + `}}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, csvPath, cfg.DataSettings.CSVPath)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BACKTESTER_PORTFOLIO_SETTINGS_INITIAL_CAPITAL", "2500")
	t.Setenv("BACKTESTER_NICKNAME", "from-env")
	cfg, err := LoadConfig([]byte(testConfig))
	require.NoError(t, err)
	assert.Equal(t, 2500.0, cfg.PortfolioSettings.InitialCapital)
	assert.Equal(t, "from-env", cfg.Nickname)
}

func TestLoadEnvFile(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	// registers restoration of the variable before clearing it for the file
	t.Setenv("BACKTESTER_NICKNAME", "placeholder")
	require.NoError(t, os.Unsetenv("BACKTESTER_NICKNAME"))

	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("BACKTESTER_NICKNAME=from-dotenv\n"), 0o600))
	require.NoError(t, LoadEnvFile(envPath))

	cfg, err := LoadConfig([]byte(`{"strategy-settings":[{"name":"sma"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Nickname)
}

func TestGenerateDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := GenerateDefaultConfig()
	require.Len(t, cfg.StrategySettings, 1)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()
	var nilConfig *Config
	assert.ErrorIs(t, nilConfig.Validate(), errNilConfig)

	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"no strategies", func(c *Config) { c.StrategySettings = nil }, errNoStrategies},
		{"unknown strategy", func(c *Config) { c.StrategySettings[0].Name = "moon" }, base.ErrStrategyNotFound},
		{"capital", func(c *Config) { c.PortfolioSettings.InitialCapital = 0 }, errInvalidInitialCapital},
		{"sizing", func(c *Config) { c.PortfolioSettings.SizingMethod = "kelly" }, common.ErrInvalidConfiguration},
		{"commission", func(c *Config) { c.ExchangeSettings.CommissionModel = "tiered" }, common.ErrInvalidConfiguration},
		{"slippage", func(c *Config) { c.ExchangeSettings.SlippageBasisPoints = -1 }, errInvalidSlippage},
		{"volume ratio", func(c *Config) { c.ExchangeSettings.MaximumVolumeRatio = 1.5 }, errInvalidVolumeRatio},
		{"database", func(c *Config) {
			c.DatabaseSettings.Enabled = true
			c.DatabaseSettings.Path = " "
		}, errDatabasePathUnset},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := GenerateDefaultConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tc.err)
			assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
		})
	}
}
