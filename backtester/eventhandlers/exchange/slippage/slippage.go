package slippage

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
)

var (
	one         = decimal.NewFromInt(1)
	basisPoints = decimal.NewFromInt(10000)
)

// NewBasisPoints returns a slippage model from a basis point value
// Zero disables slippage
func NewBasisPoints(bps decimal.Decimal) (*BasisPoints, error) {
	if bps.IsNegative() || bps.GreaterThanOrEqual(basisPoints) {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidBasisPoints, bps)
	}
	return &BasisPoints{Rate: bps.Div(basisPoints)}, nil
}

// ApplySlippage returns the price a market order would be executed at
func (b *BasisPoints) ApplySlippage(direction common.Direction, price decimal.Decimal) decimal.Decimal {
	switch direction {
	case common.Buy:
		return price.Mul(one.Add(b.Rate))
	case common.Sell:
		return price.Mul(one.Sub(b.Rate))
	default:
		return price
	}
}
