package exchange

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/slippage"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

var (
	errCommissionUnset    = errors.New("commission model unset")
	errSlippageUnset      = errors.New("slippage model unset")
	errInvalidVolumeRatio = errors.New("maximum volume ratio must be between zero and one")
	errNoPriceData        = errors.New("no price data for symbol")
	errNonPositivePrice   = errors.New("estimate price must be greater than zero")
	errNotSetup           = errors.New("exchange has not been setup")
)

// ExecutionHandler interface dictates what functions are required to execute an order
type ExecutionHandler interface {
	UpdatePrice(*market.Market) ([]*fill.Fill, error)
	ExecuteOrder(*order.Order) (*fill.Fill, error)
	ExpireOpenOrders() []*order.Order
	EstimateCost(common.Direction, common.OrderType, int64, decimal.Decimal) (decimal.Decimal, error)
	EstimateCommission(common.Direction, common.OrderType, int64, decimal.Decimal) (decimal.Decimal, error)
	GetOpenOrders() []*order.Order
	GetLatestPrice(string) (decimal.Decimal, bool)
	GetCommissionModel() commission.Model
	Reset()
}

// Exchange simulates the execution venue. It fills market orders immediately
// and holds conditional orders until the latest price crosses their threshold
// It is not safe for concurrent use
type Exchange struct {
	commission commission.Model
	slippage   slippage.Model
	// maximumVolumeRatio caps each fill at a share of the tick's volume
	// when positive
	maximumVolumeRatio decimal.Decimal
	latest             map[string]*market.Market
	resting            []*restingOrder
}

type restingOrder struct {
	order     *order.Order
	remaining int64
	filled    bool
}
