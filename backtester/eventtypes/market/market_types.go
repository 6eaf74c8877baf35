package market

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	errEmptySymbol      = errors.New("symbol must not be empty")
	errNonPositivePrice = errors.New("price must be greater than zero")
	errNegativeVolume   = errors.New("volume must not be negative")
)

// Market is a single historical observation of a symbol's price
// It is the only event type which comes from outside the engine
type Market struct {
	event.Base
	Price  decimal.Decimal `json:"price"`
	Volume int64           `json:"volume"`
}
