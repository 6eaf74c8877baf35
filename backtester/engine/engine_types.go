package engine

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/data"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/eventholder"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/slippage"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoMarketData is returned when a run is started without any ticks
	ErrNoMarketData = errors.New("no market data loaded")
	// ErrRunComplete is returned when a completed run is started again without a reset
	ErrRunComplete = errors.New("run already complete, reset before running again")
	// ErrRunAborted is returned when a run which failed during dispatch is
	// continued without a reset
	ErrRunAborted = errors.New("run aborted, reset before running again")

	errNilSettings       = errors.New("nil settings received")
	errNilStrategy       = errors.New("nil strategy received")
	errDuplicateStrategy = errors.New("strategy already registered")
	errRunStarted        = errors.New("strategies cannot be added once a run has started")
	errNoStrategies      = errors.New("no strategies registered")
	errUnhandledEvent    = errors.New("unhandled event type")
)

// Settings holds everything required to assemble a BackTest
type Settings struct {
	// Nickname seeds deterministic order ids and labels results
	Nickname string
	// InitialCapital defaults to config.DefaultInitialCapital when zero
	InitialCapital     decimal.Decimal
	Sizer              size.Sizer
	AllowShort         bool
	Commission         commission.Model
	Slippage           slippage.Model
	MaximumVolumeRatio decimal.Decimal
}

// BackTest is the main holder of all backtesting functionality
// It is single threaded and not safe for concurrent use
type BackTest struct {
	nickname   string
	strategies []strategies.Handler
	feed       data.Handler
	EventQueue eventholder.EventHolder
	portfolio  portfolio.Handler
	exchange   exchange.ExecutionHandler
	statistic  statistics.Handler
	started    bool
	complete   bool
	// failed holds the dispatch error which aborted the run
	failed error
}
