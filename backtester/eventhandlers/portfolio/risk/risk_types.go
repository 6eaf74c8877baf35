package risk

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
)

var (
	errNegativeQuantity = errors.New("requested quantity must not be negative")
	errNoReferencePrice = errors.New("no reference price to evaluate against")
	errNilEstimator     = errors.New("nil cost estimator")
)

// CostEstimator prices an order before it is placed, including slippage
// and commission
type CostEstimator interface {
	EstimateCost(direction common.Direction, orderType common.OrderType, quantity int64, price decimal.Decimal) (decimal.Decimal, error)
	EstimateCommission(direction common.Direction, orderType common.OrderType, quantity int64, price decimal.Decimal) (decimal.Decimal, error)
}

// Handler is implemented by risk managers used by the portfolio
type Handler interface {
	EvaluateOrder(*Request, CostEstimator) (*Evaluation, error)
}

// Risk clamps orders so they cannot overspend cash or sell shares
// which are not held
type Risk struct {
	AllowShort bool
}

// Request is everything the risk manager needs to evaluate a proposed order
type Request struct {
	Symbol    string
	Direction common.Direction
	OrderType common.OrderType
	Quantity  int64
	// Price is the threshold for conditional orders and the latest price otherwise
	Price decimal.Decimal
	// AvailableCash is cash less the reservations of open buy orders
	AvailableCash decimal.Decimal
	// Sellable is the held quantity less shares reserved by open sell orders
	Sellable int64
}

// Evaluation is the outcome of a risk evaluation
type Evaluation struct {
	Quantity int64
	// Cost is the cash to reserve for the order: notional plus commission
	// for a buy, commission alone for a sell
	Cost    decimal.Decimal
	Clamped bool
	Reason  string
}
