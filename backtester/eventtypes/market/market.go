package market

import (
	"fmt"
	"math"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

// New validates and creates a market event
func New(symbol string, price float64, timestamp, volume int64) (*Market, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, symbol, errNonPositivePrice, price)
	}
	return NewFromDecimal(symbol, decimal.NewFromFloat(price), timestamp, volume)
}

// NewFromDecimal validates and creates a market event from a decimal price
func NewFromDecimal(symbol string, price decimal.Decimal, timestamp, volume int64) (*Market, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, errEmptySymbol)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, symbol, errNonPositivePrice, price)
	}
	if volume < 0 {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, symbol, errNegativeVolume, volume)
	}
	return &Market{
		Base: event.Base{
			Timestamp: timestamp,
			Symbol:    symbol,
		},
		Price:  price,
		Volume: volume,
	}, nil
}

// GetType returns the event type
func (m *Market) GetType() common.EventType {
	return common.MarketEvent
}

// GetPrice returns the observed price
func (m *Market) GetPrice() decimal.Decimal {
	return m.Price
}

// GetPriceFloat returns the observed price as a float
func (m *Market) GetPriceFloat() float64 {
	return m.Price.InexactFloat64()
}

// GetVolume returns the observed volume
func (m *Market) GetVolume() int64 {
	return m.Volume
}

// String renders the event for logging
func (m *Market) String() string {
	return fmt.Sprintf("MARKET %v price=%v volume=%v ts=%v", m.Symbol, m.Price, m.Volume, m.Timestamp)
}
