package fill

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// New creates a fill for an order. Quantity may not exceed the order's
// quantity and the price must be positive
func New(o *order.Order, timestamp, quantity int64, fillPrice, marketPrice, commission decimal.Decimal, final bool) (*Fill, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrNilEvent)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, o.ID, errNonPositiveQuantity, quantity)
	}
	if quantity > o.Quantity {
		return nil, fmt.Errorf("%w %v %w: %v > %v", common.ErrInvalidData, o.ID, errQuantityExceeded, quantity, o.Quantity)
	}
	if !fillPrice.IsPositive() {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, o.ID, errNonPositivePrice, fillPrice)
	}
	if commission.IsNegative() {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, o.ID, errNegativeCommission, commission)
	}
	return &Fill{
		Base: event.Base{
			Timestamp: timestamp,
			Symbol:    o.Symbol,
		},
		OrderID:     o.ID,
		OrderType:   o.OrderType,
		Direction:   o.Direction,
		Quantity:    quantity,
		FillPrice:   fillPrice,
		MarketPrice: marketPrice,
		Slippage:    fillPrice.Sub(marketPrice).Abs(),
		Commission:  commission,
		Final:       final,
	}, nil
}

// GetType returns the event type
func (f *Fill) GetType() common.EventType {
	return common.FillEvent
}

// GetOrderID returns the id of the order which was executed
func (f *Fill) GetOrderID() string {
	return f.OrderID
}

// GetDirection returns the direction
func (f *Fill) GetDirection() common.Direction {
	return f.Direction
}

// GetQuantity returns the number of shares executed
func (f *Fill) GetQuantity() int64 {
	return f.Quantity
}

// GetFillPrice returns the execution price
func (f *Fill) GetFillPrice() decimal.Decimal {
	return f.FillPrice
}

// GetPrice returns the execution price
func (f *Fill) GetPrice() decimal.Decimal {
	return f.FillPrice
}

// GetCommission returns the commission charged
func (f *Fill) GetCommission() decimal.Decimal {
	return f.Commission
}

// GetSlippage returns the absolute per-share difference between market and fill price
func (f *Fill) GetSlippage() decimal.Decimal {
	return f.Slippage
}

// IsFinal returns whether the order is fully resolved by this fill
func (f *Fill) IsFinal() bool {
	return f.Final
}

// Notional returns quantity multiplied by the fill price
func (f *Fill) Notional() decimal.Decimal {
	return f.FillPrice.Mul(decimal.NewFromInt(f.Quantity))
}

// String renders the event for logging
func (f *Fill) String() string {
	return fmt.Sprintf("FILL %v %v %v %v qty=%v price=%v commission=%v final=%v",
		f.OrderID, f.Symbol, f.Direction, f.OrderType, f.Quantity, f.FillPrice, f.Commission, f.Final)
}
