package rsi

import (
	"fmt"
	"math"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/base"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
)

// New returns an rsi strategy with default settings
func New() *Strategy {
	s := &Strategy{}
	s.SetDefaults()
	return s
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// CalculateSignals handles a market event and returns what action the strategy believes should occur
// For rsi, this means returning a buy signal when rsi moves at or below a certain level, and a
// sell signal when it moves at or above a certain level
func (s *Strategy) CalculateSignals(m *market.Market) ([]*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	period := int(s.rsiPeriod.IntPart())
	if period <= 0 {
		return nil, fmt.Errorf("%w %w rsi-period must be greater than zero", common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings)
	}
	history := s.AppendPrice(m.Symbol, m.Price, period*historyFactor+1)
	if len(history) <= period {
		return nil, nil
	}
	closes := make([]float64, len(history))
	for i := range history {
		closes[i] = history[i].InexactFloat64()
	}
	rsi := indicators.RSI(closes, period)
	if len(rsi) == 0 {
		return nil, nil
	}
	latest := rsi[len(rsi)-1]
	if math.IsNaN(latest) || math.IsInf(latest, 0) {
		return nil, nil
	}
	latestRSIValue := decimal.NewFromFloat(latest)

	var direction common.Direction
	switch {
	case latestRSIValue.GreaterThanOrEqual(s.rsiHigh):
		direction = common.Sell
	case latestRSIValue.LessThanOrEqual(s.rsiLow):
		direction = common.Buy
	default:
		// leaving a zone allows the same zone to signal again
		s.ShouldSignal(m.Symbol, common.DoNothing)
		return nil, nil
	}
	if !s.ShouldSignal(m.Symbol, direction) {
		return nil, nil
	}
	sig, err := base.NewSignal(m, direction, Name, "RSI at "+latestRSIValue.StringFixed(2))
	if err != nil {
		return nil, err
	}
	return []*signal.Signal{sig}, nil
}

// SetCustomSettings allows a user to modify the RSI limits in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case rsiHighKey:
			rsiHigh, err := base.ParseNumber(k, v)
			if err != nil {
				return err
			}
			if rsiHigh <= 0 || rsiHigh > 100 {
				return fmt.Errorf("%w %w provided rsi-high value out of range: %v", common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings, v)
			}
			s.rsiHigh = decimal.NewFromFloat(rsiHigh)
		case rsiLowKey:
			rsiLow, err := base.ParseNumber(k, v)
			if err != nil {
				return err
			}
			if rsiLow <= 0 || rsiLow > 100 {
				return fmt.Errorf("%w %w provided rsi-low value out of range: %v", common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings, v)
			}
			s.rsiLow = decimal.NewFromFloat(rsiLow)
		case rsiPeriodKey:
			rsiPeriod, err := base.ParsePositiveInt(k, v)
			if err != nil {
				return err
			}
			s.rsiPeriod = decimal.NewFromInt(int64(rsiPeriod))
		default:
			return fmt.Errorf("%w %w unrecognised custom setting key %v with value %v. Cannot apply",
				common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.rsiLow.GreaterThanOrEqual(s.rsiHigh) && !s.rsiHigh.IsZero() {
		return fmt.Errorf("%w %w rsi-low %v must be below rsi-high %v",
			common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiPeriod = decimal.NewFromInt(14)
}
