package base

import (
	"fmt"
	"strconv"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// AppendPrice adds a price to the symbol's history, keeping at most size
// entries, and returns the history oldest first
func (s *Strategy) AppendPrice(symbol string, price decimal.Decimal, size int) []decimal.Decimal {
	if s.history == nil {
		s.history = make(map[string][]decimal.Decimal)
	}
	h := append(s.history[symbol], price)
	if len(h) > size {
		h = h[len(h)-size:]
	}
	s.history[symbol] = h
	return h
}

// History returns the price history of a symbol oldest first
func (s *Strategy) History(symbol string) []decimal.Decimal {
	return s.history[symbol]
}

// ShouldSignal reports whether direction differs from the last direction
// signalled for the symbol and records it if so
func (s *Strategy) ShouldSignal(symbol string, direction common.Direction) bool {
	if s.lastDirection == nil {
		s.lastDirection = make(map[string]common.Direction)
	}
	if s.lastDirection[symbol] == direction {
		return false
	}
	s.lastDirection[symbol] = direction
	return true
}

// Reset clears all history and signalled directions
func (s *Strategy) Reset() {
	s.history = nil
	s.lastDirection = nil
}

// NewSignal creates a market signal for the event's symbol and time
func NewSignal(m *market.Market, direction common.Direction, strategyID, reason string) (*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	sig, err := signal.New(m.Symbol, m.Timestamp, direction, strategyID)
	if err != nil {
		return nil, err
	}
	sig.AppendReason(reason)
	return sig, nil
}

// ParseNumber converts a custom setting value into a float64
// Config files decode numbers as float64 while environment overrides
// arrive as strings
func ParseNumber(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w %w provided %v value could not be parsed: %v",
		common.ErrInvalidConfiguration, ErrInvalidCustomSettings, key, v)
}

// ParsePositiveInt converts a custom setting value into a whole number
// greater than zero
func ParsePositiveInt(key string, v any) (int, error) {
	f, err := ParseNumber(key, v)
	if err != nil {
		return 0, err
	}
	if f <= 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w %w %v must be a whole number greater than zero: %v",
			common.ErrInvalidConfiguration, ErrInvalidCustomSettings, key, v)
	}
	return int(f), nil
}
