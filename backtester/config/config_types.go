package config

import (
	"errors"

	"github.com/eventdriven/gobacktester/log"
)

// EnvPrefix is prepended to environment variables overriding config values
// eg BACKTESTER_PORTFOLIO_SETTINGS_INITIAL_CAPITAL
const EnvPrefix = "BACKTESTER"

// defaults applied when a config omits a value
const (
	DefaultNickname        = "gobacktester"
	DefaultInitialCapital  = 100000.0
	DefaultSizingMethod    = "fixed"
	DefaultFixedQuantity   = 10
	DefaultCommissionModel = "flat"
	DefaultDatabasePath    = "backtester.db"
)

var (
	errNilConfig             = errors.New("nil config received")
	errNoStrategies          = errors.New("no strategies configured")
	errInvalidInitialCapital = errors.New("initial capital must be greater than zero")
	errInvalidSlippage       = errors.New("slippage basis points must be within 0 and 10000")
	errInvalidVolumeRatio    = errors.New("maximum volume ratio must be within 0 and 1")
	errDatabasePathUnset     = errors.New("database enabled without a path")
)

// Config defines what is in an individual backtester config
type Config struct {
	Nickname          string             `json:"nickname" mapstructure:"nickname"`
	Goal              string             `json:"goal,omitempty" mapstructure:"goal"`
	StrategySettings  []StrategySettings `json:"strategy-settings" mapstructure:"strategy-settings"`
	PortfolioSettings PortfolioSettings  `json:"portfolio-settings" mapstructure:"portfolio-settings"`
	ExchangeSettings  ExchangeSettings   `json:"exchange-settings" mapstructure:"exchange-settings"`
	DataSettings      DataSettings       `json:"data-settings" mapstructure:"data-settings"`
	DatabaseSettings  DatabaseSettings   `json:"database-settings" mapstructure:"database-settings"`
	LogSettings       *log.Config        `json:"log-settings,omitempty" mapstructure:"log-settings"`
}

// StrategySettings selects a strategy by name and customises it
type StrategySettings struct {
	Name           string         `json:"name" mapstructure:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty" mapstructure:"custom-settings"`
}

// PortfolioSettings holds cash and sizing settings
type PortfolioSettings struct {
	InitialCapital float64 `json:"initial-capital" mapstructure:"initial-capital"`
	SizingMethod   string  `json:"sizing-method" mapstructure:"sizing-method"`
	FixedQuantity  int64   `json:"fixed-quantity" mapstructure:"fixed-quantity"`
	Fraction       float64 `json:"fraction" mapstructure:"fraction"`
	AllowShort     bool    `json:"allow-short" mapstructure:"allow-short"`
}

// ExchangeSettings holds simulated execution settings
type ExchangeSettings struct {
	CommissionModel     string  `json:"commission-model" mapstructure:"commission-model"`
	CommissionValue     float64 `json:"commission-value" mapstructure:"commission-value"`
	SlippageBasisPoints float64 `json:"slippage-basis-points" mapstructure:"slippage-basis-points"`
	// MaximumVolumeRatio caps fills to a share of each tick's volume, 0 disables the cap
	MaximumVolumeRatio float64 `json:"maximum-volume-ratio" mapstructure:"maximum-volume-ratio"`
}

// DataSettings defines where market data is loaded from
type DataSettings struct {
	CSVPath string `json:"csv-path" mapstructure:"csv-path"`
}

// DatabaseSettings defines where run results are stored
type DatabaseSettings struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}
