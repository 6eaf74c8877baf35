package order

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	errEmptyID             = errors.New("order id must not be empty")
	errNonPositiveQuantity = errors.New("order quantity must be greater than zero")
)

// Order is a concrete, sized instruction created by the portfolio and
// executed by the exchange
type Order struct {
	event.Base
	ID         string           `json:"id"`
	OrderType  common.OrderType `json:"order-type"`
	Direction  common.Direction `json:"direction"`
	Quantity   int64            `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	StrategyID string           `json:"strategy-id,omitempty"`
}
