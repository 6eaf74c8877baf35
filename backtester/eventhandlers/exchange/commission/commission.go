package commission

import (
	"fmt"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// New returns a commission model by its config name. An empty name is a
// zero flat fee
func New(model string, value decimal.Decimal) (Model, error) {
	if value.IsNegative() {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errNegativeValue, value)
	}
	switch strings.ToLower(model) {
	case "", FlatModel:
		return &Flat{Fee: value}, nil
	case PerShareModel:
		return &PerShare{Rate: value}, nil
	case PercentageModel:
		if value.GreaterThanOrEqual(hundred) {
			return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errPercentageRange, value)
		}
		return &Percentage{Rate: value.Div(hundred)}, nil
	default:
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidConfiguration, errUnknownModel, model)
	}
}

// Name returns the model name
func (f *Flat) Name() string {
	return FlatModel
}

// Calculate returns the fee for the opening fill and nothing afterwards
func (f *Flat) Calculate(_ int64, _ decimal.Decimal, openingFill bool) decimal.Decimal {
	if !openingFill {
		return decimal.Zero
	}
	return f.Fee
}

// Name returns the model name
func (p *PerShare) Name() string {
	return PerShareModel
}

// Calculate returns rate multiplied by quantity
func (p *PerShare) Calculate(quantity int64, _ decimal.Decimal, _ bool) decimal.Decimal {
	return p.Rate.Mul(decimal.NewFromInt(quantity))
}

// Name returns the model name
func (p *Percentage) Name() string {
	return PercentageModel
}

// Calculate returns rate multiplied by notional
func (p *Percentage) Calculate(quantity int64, price decimal.Decimal, _ bool) decimal.Decimal {
	return p.Rate.Mul(price).Mul(decimal.NewFromInt(quantity))
}
