package risk

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
)

// EvaluateOrder clamps the requested quantity to what can be afforded for a
// buy, or to what is held for a sell when shorting is disabled. A sell is
// further clamped so its commission can be paid from available cash. A
// returned quantity of zero means the order cannot be placed
func (r *Risk) EvaluateOrder(req *Request, est CostEstimator) (*Evaluation, error) {
	if req == nil {
		return nil, common.ErrNilArguments
	}
	if est == nil {
		return nil, errNilEstimator
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidData, errNegativeQuantity, req.Quantity)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w %v %w", common.ErrInvalidData, req.Symbol, errNoReferencePrice)
	}
	resp := &Evaluation{Quantity: req.Quantity}
	switch req.Direction {
	case common.Buy:
		return r.evaluateBuy(req, est, resp)
	case common.Sell:
		if !r.AllowShort && resp.Quantity > req.Sellable {
			resp.Quantity = max(req.Sellable, 0)
			resp.Clamped = true
			resp.Reason = fmt.Sprintf("sell clamped from %v to %v sellable shares", req.Quantity, resp.Quantity)
		}
		return r.evaluateSell(req, est, resp)
	default:
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidDirection, req.Direction)
	}
}

func (r *Risk) evaluateBuy(req *Request, est CostEstimator, resp *Evaluation) (*Evaluation, error) {
	return clampToCash(req, resp, est.EstimateCost, "buy clamped from %v to %v affordable shares with %v available cash")
}

// evaluateSell reserves the commission of a sell, as proceeds are only
// received once it fills and may not cover the fee
func (r *Risk) evaluateSell(req *Request, est CostEstimator, resp *Evaluation) (*Evaluation, error) {
	return clampToCash(req, resp, est.EstimateCommission, "sell clamped from %v to %v shares whose commission fits %v available cash")
}

type costFunc func(common.Direction, common.OrderType, int64, decimal.Decimal) (decimal.Decimal, error)

// clampToCash reduces resp.Quantity to the largest quantity whose cost fits
// within available cash
func clampToCash(req *Request, resp *Evaluation, cost costFunc, reasonFormat string) (*Evaluation, error) {
	if resp.Quantity == 0 {
		return resp, nil
	}
	c, err := cost(req.Direction, req.OrderType, resp.Quantity, req.Price)
	if err != nil {
		return nil, err
	}
	if c.LessThanOrEqual(req.AvailableCash) {
		resp.Cost = c
		return resp, nil
	}
	// cost is monotonic in quantity so the largest affordable quantity is
	// found by bisecting between zero and the request
	requested := resp.Quantity
	lo, hi := int64(1), requested-1
	affordable, affordableCost := int64(0), decimal.Zero
	for lo <= hi {
		mid := lo + (hi-lo)/2
		c, err = cost(req.Direction, req.OrderType, mid, req.Price)
		if err != nil {
			return nil, err
		}
		if c.LessThanOrEqual(req.AvailableCash) {
			affordable, affordableCost = mid, c
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	resp.Quantity = affordable
	resp.Cost = affordableCost
	resp.Clamped = true
	resp.Reason = fmt.Sprintf(reasonFormat, requested, affordable, req.AvailableCash.StringFixed(2))
	return resp, nil
}
