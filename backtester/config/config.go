package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies"
	"github.com/eventdriven/gobacktester/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ReadConfigFromFile will take a config from a path. A relative csv-path is
// resolved against the directory holding the config file
func ReadConfigFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w reading config %v: %w", common.ErrInvalidConfiguration, path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if cfg.DataSettings.CSVPath != "" && !filepath.IsAbs(cfg.DataSettings.CSVPath) {
		cfg.DataSettings.CSVPath = filepath.Join(filepath.Dir(path), cfg.DataSettings.CSVPath)
	}
	return cfg, nil
}

// LoadEnvFile exports the variables in a dotenv file so BACKTESTER_ prefixed
// entries override config values. Variables already set in the environment
// take precedence over the file
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w loading env file %v: %w", common.ErrInvalidConfiguration, path, err)
	}
	return nil
}

// LoadConfig unmarshalls json byte data into a config struct
func LoadConfig(data []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w %w", common.ErrInvalidConfiguration, err)
	}
	return decode(v)
}

// GenerateDefaultConfig returns a config with every default applied and a
// single default strategy
func GenerateDefaultConfig() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		cfg = &Config{}
	}
	cfg.StrategySettings = []StrategySettings{{Name: "sma"}}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("nickname", DefaultNickname)
	v.SetDefault("portfolio-settings.initial-capital", DefaultInitialCapital)
	v.SetDefault("portfolio-settings.sizing-method", DefaultSizingMethod)
	v.SetDefault("portfolio-settings.fixed-quantity", DefaultFixedQuantity)
	v.SetDefault("portfolio-settings.fraction", 0.0)
	v.SetDefault("portfolio-settings.allow-short", false)
	v.SetDefault("exchange-settings.commission-model", DefaultCommissionModel)
	v.SetDefault("exchange-settings.commission-value", 0.0)
	v.SetDefault("exchange-settings.slippage-basis-points", 0.0)
	v.SetDefault("exchange-settings.maximum-volume-ratio", 0.0)
	v.SetDefault("data-settings.csv-path", "")
	v.SetDefault("database-settings.enabled", false)
	v.SetDefault("database-settings.path", DefaultDatabasePath)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w %w", common.ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}

// Validate checks all config settings
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errNilConfig)
	}
	err := c.validateStrategySettings()
	if err != nil {
		return err
	}
	err = c.validatePortfolioSettings()
	if err != nil {
		return err
	}
	err = c.validateExchangeSettings()
	if err != nil {
		return err
	}
	if c.DatabaseSettings.Enabled && strings.TrimSpace(c.DatabaseSettings.Path) == "" {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errDatabasePathUnset)
	}
	return nil
}

func (c *Config) validateStrategySettings() error {
	if len(c.StrategySettings) == 0 {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errNoStrategies)
	}
	for i := range c.StrategySettings {
		if _, err := strategies.LoadStrategyByName(c.StrategySettings[i].Name, c.StrategySettings[i].CustomSettings); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePortfolioSettings() error {
	if c.PortfolioSettings.InitialCapital <= 0 {
		return fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidInitialCapital, c.PortfolioSettings.InitialCapital)
	}
	_, err := size.New(c.PortfolioSettings.SizingMethod,
		c.PortfolioSettings.FixedQuantity,
		decimal.NewFromFloat(c.PortfolioSettings.Fraction))
	return err
}

func (c *Config) validateExchangeSettings() error {
	if _, err := commission.New(c.ExchangeSettings.CommissionModel, decimal.NewFromFloat(c.ExchangeSettings.CommissionValue)); err != nil {
		return err
	}
	if c.ExchangeSettings.SlippageBasisPoints < 0 || c.ExchangeSettings.SlippageBasisPoints >= 10000 {
		return fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidSlippage, c.ExchangeSettings.SlippageBasisPoints)
	}
	if c.ExchangeSettings.MaximumVolumeRatio < 0 || c.ExchangeSettings.MaximumVolumeRatio > 1 {
		return fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidVolumeRatio, c.ExchangeSettings.MaximumVolumeRatio)
	}
	return nil
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	log.Info(log.ConfigMgr, "------------------Backtester Settings------------------------")
	if c.Nickname != "" {
		log.Infof(log.ConfigMgr, "Nickname: %v", c.Nickname)
	}
	if c.Goal != "" {
		log.Infof(log.ConfigMgr, "Goal: %v", c.Goal)
	}
	log.Info(log.ConfigMgr, "------------------Strategy Settings--------------------------")
	for i := range c.StrategySettings {
		log.Infof(log.ConfigMgr, "Strategy: %s", c.StrategySettings[i].Name)
		for k, v := range c.StrategySettings[i].CustomSettings {
			log.Infof(log.ConfigMgr, "%s: %v", k, v)
		}
	}
	log.Info(log.ConfigMgr, "------------------Portfolio Settings-------------------------")
	log.Infof(log.ConfigMgr, "Initial capital: %v", c.PortfolioSettings.InitialCapital)
	log.Infof(log.ConfigMgr, "Sizing method: %v", c.PortfolioSettings.SizingMethod)
	log.Infof(log.ConfigMgr, "Fixed quantity: %v", c.PortfolioSettings.FixedQuantity)
	log.Infof(log.ConfigMgr, "Fraction: %v", c.PortfolioSettings.Fraction)
	log.Infof(log.ConfigMgr, "Allow short: %v", c.PortfolioSettings.AllowShort)
	log.Info(log.ConfigMgr, "------------------Exchange Settings--------------------------")
	log.Infof(log.ConfigMgr, "Commission: %v %v", c.ExchangeSettings.CommissionModel, c.ExchangeSettings.CommissionValue)
	log.Infof(log.ConfigMgr, "Slippage basis points: %v", c.ExchangeSettings.SlippageBasisPoints)
	log.Infof(log.ConfigMgr, "Maximum volume ratio: %v", c.ExchangeSettings.MaximumVolumeRatio)
	if c.DataSettings.CSVPath != "" {
		log.Infof(log.ConfigMgr, "CSV data: %v", c.DataSettings.CSVPath)
	}
	if c.DatabaseSettings.Enabled {
		log.Infof(log.ConfigMgr, "Database: %v", c.DatabaseSettings.Path)
	}
}
