package signal

import (
	"fmt"
	"math"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

// New creates a market signal with the default strength
func New(symbol string, timestamp int64, direction common.Direction, strategyID string) (*Signal, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrNilArguments)
	}
	if !direction.IsTradeable() {
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidDirection, direction)
	}
	return &Signal{
		Base: event.Base{
			Timestamp: timestamp,
			Symbol:    symbol,
		},
		Direction:  direction,
		Strength:   DefaultStrength,
		StrategyID: strategyID,
		OrderType:  common.Market,
	}, nil
}

// GetType returns the event type
func (s *Signal) GetType() common.EventType {
	return common.SignalEvent
}

// GetDirection returns the direction
func (s *Signal) GetDirection() common.Direction {
	return s.Direction
}

// SetStrength sets the sizing hint
func (s *Signal) SetStrength(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%w %w: %v", common.ErrInvalidData, errNegativeStrength, f)
	}
	s.Strength = decimal.NewFromFloat(f)
	return nil
}

// GetStrength returns the sizing hint
func (s *Signal) GetStrength() decimal.Decimal {
	return s.Strength
}

// GetStrategyID returns the name of the strategy which raised the signal
func (s *Signal) GetStrategyID() string {
	return s.StrategyID
}

// SetOrderType sets how the resulting order should be executed
// LIMIT and STOP signals require a positive threshold price
func (s *Signal) SetOrderType(ot common.OrderType, price decimal.Decimal) error {
	if !ot.IsValid() {
		return fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidOrderType, ot)
	}
	switch {
	case ot == common.Market && !price.IsZero():
		return fmt.Errorf("%w %w: %v", common.ErrInvalidData, errUnexpectedPrice, price)
	case ot != common.Market && !price.IsPositive():
		return fmt.Errorf("%w %w: %v", common.ErrInvalidData, errThresholdRequired, price)
	}
	s.OrderType = ot
	s.Price = price
	return nil
}

// GetOrderType returns the requested order type
func (s *Signal) GetOrderType() common.OrderType {
	return s.OrderType
}

// GetPrice returns the threshold price
func (s *Signal) GetPrice() decimal.Decimal {
	return s.Price
}

// String renders the event for logging
func (s *Signal) String() string {
	str := fmt.Sprintf("SIGNAL %v %v %v strength=%v", s.Symbol, s.Direction, s.OrderType, s.Strength)
	if s.OrderType != common.Market {
		str += fmt.Sprintf(" price=%v", s.Price)
	}
	if s.StrategyID != "" {
		str += " strategy=" + s.StrategyID
	}
	return str
}
