package results

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errNilStatistic = errors.New("nil statistic received")
	errRunNotFound  = errors.New("run not found")
)

// Run is a stored summary of a completed backtest
type Run struct {
	ID                 string
	Nickname           string
	Strategies         []string
	InitialValue       decimal.Decimal
	FinalValue         decimal.Decimal
	ReturnPercent      decimal.Decimal
	MaxDrawdownPercent decimal.Decimal
	MarketEvents       int64
	SignalEvents       int64
	OrderEvents        int64
	FillEvents         int64
	RejectedSignals    int64
	ExpiredOrders      int64
	TotalCommission    decimal.Decimal
	InsertedAt         time.Time
}
