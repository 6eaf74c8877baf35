package engine

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/config"
	"github.com/eventdriven/gobacktester/backtester/data"
	"github.com/eventdriven/gobacktester/backtester/data/csv"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/eventholder"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/slippage"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/risk"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies"
	"github.com/eventdriven/gobacktester/log"
	"github.com/shopspring/decimal"
)

// New assembles a BackTest from settings. Unset collaborators fall back to
// config.DefaultInitialCapital, a fixed size of config.DefaultFixedQuantity
// shares, no commission and no slippage
func New(s *Settings) (*BackTest, error) {
	if s == nil {
		return nil, fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errNilSettings)
	}
	var err error
	capital := s.InitialCapital
	if capital.IsZero() {
		capital = decimal.NewFromFloat(config.DefaultInitialCapital)
	}
	sizer := s.Sizer
	if sizer == nil {
		sizer, err = size.NewFixed(config.DefaultFixedQuantity)
		if err != nil {
			return nil, err
		}
	}
	comm := s.Commission
	if comm == nil {
		comm = &commission.Flat{}
	}
	slip := s.Slippage
	if slip == nil {
		slip = &slippage.BasisPoints{}
	}

	bt := &BackTest{
		nickname:   s.Nickname,
		feed:       &data.Feed{},
		EventQueue: &eventholder.Holder{},
	}
	ex, err := exchange.Setup(comm, slip, s.MaximumVolumeRatio)
	if err != nil {
		return nil, err
	}
	p, err := portfolio.Setup(capital, sizer, &risk.Risk{AllowShort: s.AllowShort}, ex)
	if err != nil {
		return nil, err
	}
	if s.Nickname != "" {
		p.SetNamespace(s.Nickname)
	}
	stats, err := statistics.New(s.Nickname, capital)
	if err != nil {
		return nil, err
	}
	bt.exchange = ex
	bt.portfolio = p
	bt.statistic = stats
	return bt, nil
}

// NewWithCapital returns a BackTest using default settings and the supplied capital
func NewWithCapital(initialCapital float64) (*BackTest, error) {
	return New(&Settings{
		InitialCapital: decimal.NewFromFloat(initialCapital),
	})
}

// NewFromConfig takes a validated backtester config and assembles a BackTest
// with its strategies registered and any csv data loaded
func NewFromConfig(cfg *config.Config) (*BackTest, error) {
	log.Infoln(log.BackTester, "loading config...")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizer, err := size.New(cfg.PortfolioSettings.SizingMethod,
		cfg.PortfolioSettings.FixedQuantity,
		decimal.NewFromFloat(cfg.PortfolioSettings.Fraction))
	if err != nil {
		return nil, err
	}
	comm, err := commission.New(cfg.ExchangeSettings.CommissionModel, decimal.NewFromFloat(cfg.ExchangeSettings.CommissionValue))
	if err != nil {
		return nil, err
	}
	slip, err := slippage.NewBasisPoints(decimal.NewFromFloat(cfg.ExchangeSettings.SlippageBasisPoints))
	if err != nil {
		return nil, err
	}
	bt, err := New(&Settings{
		Nickname:           cfg.Nickname,
		InitialCapital:     decimal.NewFromFloat(cfg.PortfolioSettings.InitialCapital),
		Sizer:              sizer,
		AllowShort:         cfg.PortfolioSettings.AllowShort,
		Commission:         comm,
		Slippage:           slip,
		MaximumVolumeRatio: decimal.NewFromFloat(cfg.ExchangeSettings.MaximumVolumeRatio),
	})
	if err != nil {
		return nil, err
	}

	for i := range cfg.StrategySettings {
		var s strategies.Handler
		s, err = strategies.LoadStrategyByName(cfg.StrategySettings[i].Name, cfg.StrategySettings[i].CustomSettings)
		if err != nil {
			return nil, err
		}
		if err = bt.AddStrategy(s); err != nil {
			return nil, err
		}
	}

	if cfg.DataSettings.CSVPath != "" {
		ticks, err := csv.LoadData(cfg.DataSettings.CSVPath)
		if err != nil {
			return nil, err
		}
		if err = bt.feed.AppendStream(ticks...); err != nil {
			return nil, err
		}
		log.Infof(log.BackTester, "loaded %v ticks from %v", len(ticks), cfg.DataSettings.CSVPath)
	}
	return bt, nil
}
