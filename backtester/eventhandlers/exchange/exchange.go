package exchange

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/slippage"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/eventdriven/gobacktester/log"
	"github.com/shopspring/decimal"
)

// Setup creates an exchange with its commission and slippage models
func Setup(c commission.Model, s slippage.Model, maximumVolumeRatio decimal.Decimal) (*Exchange, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, errCommissionUnset)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, errSlippageUnset)
	}
	if maximumVolumeRatio.IsNegative() || maximumVolumeRatio.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidVolumeRatio, maximumVolumeRatio)
	}
	e := &Exchange{
		commission:         c,
		slippage:           s,
		maximumVolumeRatio: maximumVolumeRatio,
	}
	e.Reset()
	return e, nil
}

// Reset clears prices and resting orders
func (e *Exchange) Reset() {
	e.latest = make(map[string]*market.Market)
	e.resting = nil
}

// UpdatePrice records the latest observation for a symbol and re-evaluates
// its resting orders in submission order. Triggered orders are filled
func (e *Exchange) UpdatePrice(m *market.Market) ([]*fill.Fill, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if e.latest == nil {
		return nil, errNotSetup
	}
	e.latest[m.Symbol] = m

	var fills []*fill.Fill
	kept := e.resting[:0]
	for _, r := range e.resting {
		if r.order.Symbol != m.Symbol || !triggered(r.order, m.Price) {
			kept = append(kept, r)
			continue
		}
		f, err := e.fillResting(r, m)
		if err != nil {
			return nil, err
		}
		fills = append(fills, f)
		if r.remaining > 0 {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(e.resting); i++ {
		e.resting[i] = nil
	}
	e.resting = kept
	return fills, nil
}

// ExecuteOrder fills a market order immediately at the latest price with
// slippage applied. A conditional order fills at its threshold if the latest
// price has already crossed it, otherwise it rests and nil is returned
func (e *Exchange) ExecuteOrder(o *order.Order) (*fill.Fill, error) {
	if o == nil {
		return nil, common.ErrNilEvent
	}
	if e.latest == nil {
		return nil, errNotSetup
	}
	m, ok := e.latest[o.Symbol]
	switch o.OrderType {
	case common.Market:
		if !ok {
			return nil, fmt.Errorf("%w %v for order %v", errNoPriceData, o.Symbol, o.ID)
		}
		quantity := e.capQuantity(o.Quantity, m.Volume)
		price := e.slippage.ApplySlippage(o.Direction, m.Price)
		f, err := fill.New(o, m.Timestamp, quantity, price, m.Price, e.commission.Calculate(quantity, price, true), true)
		if err != nil {
			return nil, err
		}
		if quantity < o.Quantity {
			f.AppendReason(fmt.Sprintf("volume capped fill to %v of %v, remainder cancelled", quantity, o.Quantity))
		}
		return f, nil
	case common.Limit, common.Stop:
		r := &restingOrder{order: o, remaining: o.Quantity}
		if !ok || !triggered(o, m.Price) {
			e.resting = append(e.resting, r)
			log.Debugf(log.Exchange, "%v resting", o)
			return nil, nil
		}
		f, err := e.fillResting(r, m)
		if err != nil {
			return nil, err
		}
		if r.remaining > 0 {
			e.resting = append(e.resting, r)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidOrderType, o.OrderType)
	}
}

func (e *Exchange) fillResting(r *restingOrder, m *market.Market) (*fill.Fill, error) {
	quantity := e.capQuantity(r.remaining, m.Volume)
	price := r.order.Price
	f, err := fill.New(r.order, m.Timestamp, quantity, price, m.Price, e.commission.Calculate(quantity, price, !r.filled), quantity == r.remaining)
	if err != nil {
		return nil, err
	}
	f.AppendReason(fmt.Sprintf("%v triggered at market price %v", r.order.OrderType, m.Price))
	r.remaining -= quantity
	r.filled = true
	return f, nil
}

// capQuantity limits quantity to the configured share of the tick's volume
// Every fill is at least one share
func (e *Exchange) capQuantity(quantity, volume int64) int64 {
	if !e.maximumVolumeRatio.IsPositive() || volume <= 0 {
		return quantity
	}
	limit := max(decimal.NewFromInt(volume).Mul(e.maximumVolumeRatio).Floor().IntPart(), 1)
	return min(quantity, limit)
}

// triggered reports whether price crosses the threshold of a conditional order
// Market orders are always triggered
func triggered(o *order.Order, price decimal.Decimal) bool {
	switch {
	case o.OrderType == common.Limit && o.Direction == common.Buy:
		return price.LessThanOrEqual(o.Price)
	case o.OrderType == common.Limit && o.Direction == common.Sell:
		return price.GreaterThanOrEqual(o.Price)
	case o.OrderType == common.Stop && o.Direction == common.Buy:
		return price.GreaterThanOrEqual(o.Price)
	case o.OrderType == common.Stop && o.Direction == common.Sell:
		return price.LessThanOrEqual(o.Price)
	default:
		return o.OrderType == common.Market
	}
}

// EstimateCost returns the cash needed to execute an order at price,
// including slippage for market orders and commission
func (e *Exchange) EstimateCost(direction common.Direction, orderType common.OrderType, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	executionPrice, err := e.estimatePrice(direction, orderType, price)
	if err != nil {
		return decimal.Zero, err
	}
	return executionPrice.Mul(decimal.NewFromInt(quantity)).Add(e.commission.Calculate(quantity, executionPrice, true)), nil
}

// EstimateCommission returns the commission an order at price would be
// charged in total
func (e *Exchange) EstimateCommission(direction common.Direction, orderType common.OrderType, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	executionPrice, err := e.estimatePrice(direction, orderType, price)
	if err != nil {
		return decimal.Zero, err
	}
	return e.commission.Calculate(quantity, executionPrice, true), nil
}

func (e *Exchange) estimatePrice(direction common.Direction, orderType common.OrderType, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w %w: %v", common.ErrInvalidData, errNonPositivePrice, price)
	}
	if e.commission == nil || e.slippage == nil {
		return decimal.Zero, errNotSetup
	}
	if orderType == common.Market {
		return e.slippage.ApplySlippage(direction, price), nil
	}
	return price, nil
}

// ExpireOpenOrders removes every resting order and returns them in
// submission order
func (e *Exchange) ExpireOpenOrders() []*order.Order {
	resp := make([]*order.Order, 0, len(e.resting))
	for _, r := range e.resting {
		resp = append(resp, r.order)
	}
	e.resting = nil
	return resp
}

// GetOpenOrders returns resting orders in submission order
func (e *Exchange) GetOpenOrders() []*order.Order {
	resp := make([]*order.Order, 0, len(e.resting))
	for _, r := range e.resting {
		resp = append(resp, r.order)
	}
	return resp
}

// GetLatestPrice returns the most recently observed price of a symbol
func (e *Exchange) GetLatestPrice(symbol string) (decimal.Decimal, bool) {
	m, ok := e.latest[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return m.Price, true
}

// GetCommissionModel returns the configured commission model
func (e *Exchange) GetCommissionModel() commission.Model {
	return e.commission
}
