package slippage

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
)

var errInvalidBasisPoints = errors.New("slippage basis points must be at least zero and below 10000")

// Model adjusts a market price against the trader
type Model interface {
	ApplySlippage(direction common.Direction, price decimal.Decimal) decimal.Decimal
}

// BasisPoints moves the price by a fixed number of basis points
// Buys pay more and sells receive less
type BasisPoints struct {
	Rate decimal.Decimal
}
