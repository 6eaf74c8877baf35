package size

import (
	"fmt"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// NewFixed validates and returns a fixed quantity sizer
func NewFixed(quantity int64) (*Fixed, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidQuantity, quantity)
	}
	return &Fixed{Quantity: quantity}, nil
}

// NewFraction validates and returns a fraction of equity sizer
func NewFraction(fraction decimal.Decimal) (*Fraction, error) {
	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidFraction, fraction)
	}
	return &Fraction{Fraction: fraction}, nil
}

// New returns a sizer by its config method name
func New(method string, quantity int64, fraction decimal.Decimal) (Sizer, error) {
	switch strings.ToLower(method) {
	case "", FixedMethod:
		return NewFixed(quantity)
	case FractionMethod:
		return NewFraction(fraction)
	default:
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidConfiguration, errUnknownMethod, method)
	}
}

// Name returns the sizing method
func (f *Fixed) Name() string {
	return FixedMethod
}

// SizeSignal returns the configured quantity scaled by strength and floored
func (f *Fixed) SizeSignal(s *signal.Signal, _, _ decimal.Decimal) (int64, error) {
	if s == nil {
		return 0, common.ErrNilEvent
	}
	return decimal.NewFromInt(f.Quantity).Mul(s.Strength).Floor().IntPart(), nil
}

// Name returns the sizing method
func (f *Fraction) Name() string {
	return FractionMethod
}

// SizeSignal returns the whole shares purchasable with the fraction of equity
// scaled by strength
func (f *Fraction) SizeSignal(s *signal.Signal, price, equity decimal.Decimal) (int64, error) {
	if s == nil {
		return 0, common.ErrNilEvent
	}
	if !price.IsPositive() {
		return 0, fmt.Errorf("%w %w: %v", common.ErrInvalidData, errNonPositivePrice, price)
	}
	if !equity.IsPositive() {
		return 0, nil
	}
	return equity.Mul(f.Fraction).Mul(s.Strength).Div(price).Floor().IntPart(), nil
}
