package fill

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	errNonPositiveQuantity = errors.New("fill quantity must be greater than zero")
	errQuantityExceeded    = errors.New("fill quantity exceeds order quantity")
	errNonPositivePrice    = errors.New("fill price must be greater than zero")
	errNegativeCommission  = errors.New("commission must not be negative")
)

// Fill is an event that details the execution of an order
type Fill struct {
	event.Base
	OrderID   string           `json:"order-id"`
	OrderType common.OrderType `json:"order-type"`
	Direction common.Direction `json:"direction"`
	Quantity  int64            `json:"quantity"`
	FillPrice decimal.Decimal  `json:"fill-price"`
	// MarketPrice is the latest observed price before slippage was applied
	MarketPrice decimal.Decimal `json:"market-price"`
	Slippage    decimal.Decimal `json:"slippage"`
	Commission  decimal.Decimal `json:"commission"`
	// Final is set when the order has nothing left to execute
	Final bool `json:"final"`
}
