package statistics

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

var (
	errReceivedNoData     = errors.New("received no data")
	errUnknownEventType   = errors.New("unknown event type")
	errAlreadyCalculated  = errors.New("results have already been calculated")
	errNonPositiveInitial = errors.New("initial value must be greater than zero")
)

// Statistic holds all statistical information for a backtester run, from
// event counts to drawdowns
// It is not safe for concurrent use
type Statistic struct {
	Nickname        string          `json:"nickname,omitempty"`
	StrategyNames   []string        `json:"strategy-names"`
	InitialValue    decimal.Decimal `json:"initial-value"`
	FinalValue      decimal.Decimal `json:"final-value"`
	StrategyReturn  decimal.Decimal `json:"strategy-return-percent"`
	MarketEvents    int64           `json:"market-events"`
	SignalEvents    int64           `json:"signal-events"`
	OrderEvents     int64           `json:"order-events"`
	FillEvents      int64           `json:"fill-events"`
	BuyFills        int64           `json:"buy-fills"`
	SellFills       int64           `json:"sell-fills"`
	RejectedSignals int64           `json:"rejected-signals"`
	ExpiredOrders   int64           `json:"expired-orders"`
	TotalCommission decimal.Decimal `json:"total-commission"`
	// TotalSlippage is the cash lost to slippage across all fills
	TotalSlippage decimal.Decimal       `json:"total-slippage"`
	MaxDrawdown   Swing                 `json:"max-drawdown"`
	EquityCurve   []ValueAtTime         `json:"equity-curve"`
	Events        []EventRecord         `json:"events"`
	Fills         []FillRecord          `json:"fills"`
	Rejections    []portfolio.Rejection `json:"rejections,omitempty"`
	Expired       []string              `json:"expired,omitempty"`
	calculated    bool
}

// Handler interface details what a statistic is expected to do
type Handler interface {
	SetStrategyNames([]string)
	AddEvent(common.Event) error
	AddRejection(portfolio.Rejection)
	AddExpiredOrder(*order.Order)
	AddEquity(int64, int64, decimal.Decimal)
	CalculateResults(decimal.Decimal) error
	PrintResult()
	Serialise() (string, error)
	Reset()
}

// ValueAtTime is an individual iteration of total value at a time
type ValueAtTime struct {
	Offset    int64           `json:"offset"`
	Timestamp int64           `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// Swing holds a drawdown
type Swing struct {
	Highest         ValueAtTime     `json:"highest"`
	Lowest          ValueAtTime     `json:"lowest"`
	DrawdownPercent decimal.Decimal `json:"drawdown-percent"`
}

// EventRecord is the audit entry of a signal, order or fill
type EventRecord struct {
	Offset      int64  `json:"offset"`
	Type        string `json:"type"`
	Timestamp   int64  `json:"timestamp"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// FillRecord is a flattened fill for reporting and storage
type FillRecord struct {
	Offset     int64           `json:"offset"`
	Timestamp  int64           `json:"timestamp"`
	OrderID    string          `json:"order-id"`
	Symbol     string          `json:"symbol"`
	Direction  string          `json:"direction"`
	OrderType  string          `json:"order-type"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Final      bool            `json:"final"`
}
