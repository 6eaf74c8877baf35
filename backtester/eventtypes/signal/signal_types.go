package signal

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	errNegativeStrength  = errors.New("strength must not be negative")
	errThresholdRequired = errors.New("limit and stop signals require a positive price")
	errUnexpectedPrice   = errors.New("market signals must not carry a price")
)

// DefaultStrength is used by the portfolio sizer when a strategy does not
// express a preference
var DefaultStrength = decimal.NewFromInt(1)

// Signal handles the signal event. It is the strategy's request for the
// portfolio to act and carries no quantity, only a sizing hint
type Signal struct {
	event.Base
	Direction  common.Direction `json:"direction"`
	Strength   decimal.Decimal  `json:"strength"`
	StrategyID string           `json:"strategy-id,omitempty"`
	OrderType  common.OrderType `json:"order-type"`
	// Price is the limit or stop threshold and is zero for market orders
	Price decimal.Decimal `json:"price"`
}
