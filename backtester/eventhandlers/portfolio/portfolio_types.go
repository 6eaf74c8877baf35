package portfolio

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/compliance"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/holdings"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/risk"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// DefaultNamespace seeds order ids when no run nickname is provided
const DefaultNamespace = "gobacktester"

var (
	errInvalidCapital      = errors.New("initial capital must be greater than zero")
	errSizeManagerUnset    = errors.New("size manager unset")
	errRiskManagerUnset    = errors.New("risk manager unset")
	errCostEstimatorUnset  = errors.New("cost estimator unset")
	errNotSetup            = errors.New("portfolio has not been setup")
	errNonPositivePrice    = errors.New("price must be greater than zero")
	errEmptySymbol         = errors.New("symbol must not be empty")
	errInvalidSignalTarget = errors.New("signal is not a tradeable direction")
)

// Portfolio holds cash and positions and decides how signals become orders
// It is not safe for concurrent use
type Portfolio struct {
	initialCapital decimal.Decimal
	cash           decimal.Decimal
	totalValue     decimal.Decimal
	positions      map[string]*holdings.Position
	prices         map[string]decimal.Decimal
	// symbols keeps iteration over positions deterministic
	symbols []string

	sizeManager size.Sizer
	riskManager risk.Handler
	estimator   risk.CostEstimator
	compliance  *compliance.Manager

	namespace     uuid.UUID
	orderSequence int64
	rejections    []Rejection
}

// Handler interface dictates what functions are required to turn signals
// into orders and track the holdings they produce
type Handler interface {
	OnSignal(*signal.Signal) (*order.Order, error)
	OnFill(*fill.Fill) error
	UpdatePrice(string, decimal.Decimal) error
	ReleaseOrder(string, int64, int64) error
	GetTotalValue() decimal.Decimal
	GetCash() decimal.Decimal
	GetAvailableCash() decimal.Decimal
	GetInitialCapital() decimal.Decimal
	GetCurrentPrice(string) (decimal.Decimal, bool)
	GetPosition(string) (holdings.Position, bool)
	GetPositions() []holdings.Position
	GetRejections() []Rejection
	GetComplianceManager() *compliance.Manager
	Reset()
}

// Rejection records a signal which could not become an order
type Rejection struct {
	Offset     int64  `json:"offset"`
	Timestamp  int64  `json:"timestamp"`
	Symbol     string `json:"symbol"`
	Direction  string `json:"direction"`
	StrategyID string `json:"strategy-id,omitempty"`
	Reason     string `json:"reason"`
}
