package sma

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/base"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// New returns a moving average strategy over window prices
func New(window int) (*Strategy, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidWindow, window)
	}
	return &Strategy{window: window}, nil
}

// NewDefault returns a moving average strategy over the default window
func NewDefault() *Strategy {
	return &Strategy{window: DefaultWindow}
}

// Name returns the name of the strategy including its window
func (s *Strategy) Name() string {
	return fmt.Sprintf("SMA_%d", s.window)
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// Window returns the number of prices averaged
func (s *Strategy) Window() int {
	return s.window
}

// CalculateSignals handles a market event and returns what action the strategy believes should occur
// Nothing is returned until the window is full for the symbol, and afterwards
// only when price crosses to the other side of the mean
func (s *Strategy) CalculateSignals(m *market.Market) ([]*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if s.window <= 0 {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidWindow, s.window)
	}
	history := s.AppendPrice(m.Symbol, m.Price, s.window)
	if len(history) < s.window {
		return nil, nil
	}
	sum := decimal.Zero
	for i := range history {
		sum = sum.Add(history[i])
	}
	// comparing price*window with the sum avoids rounding the mean
	scaled := m.Price.Mul(decimal.NewFromInt(int64(s.window)))
	var direction common.Direction
	switch {
	case scaled.GreaterThan(sum):
		direction = common.Buy
	case scaled.LessThan(sum):
		direction = common.Sell
	default:
		return nil, nil
	}
	if !s.ShouldSignal(m.Symbol, direction) {
		return nil, nil
	}
	mean := sum.Div(decimal.NewFromInt(int64(s.window)))
	sig, err := base.NewSignal(m, direction, s.Name(), fmt.Sprintf("price %v %v mean %v", m.Price, relation(direction), mean.StringFixed(4)))
	if err != nil {
		return nil, err
	}
	return []*signal.Signal{sig}, nil
}

func relation(d common.Direction) string {
	if d == common.Buy {
		return "above"
	}
	return "below"
}

// SetCustomSettings allows a user to modify the window in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case windowSizeKey:
			w, err := base.ParsePositiveInt(k, v)
			if err != nil {
				return err
			}
			s.window = w
		default:
			return fmt.Errorf("%w %w unrecognised custom setting key %v with value %v. Cannot apply",
				common.ErrInvalidConfiguration, base.ErrInvalidCustomSettings, k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.window = DefaultWindow
}
