package order

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/event"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
)

// New creates an order from a signal, carrying over its symbol, side,
// execution type, threshold price and strategy
func New(s *signal.Signal, id string, quantity int64) (*Order, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, common.ErrNilEvent)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidData, errEmptyID)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, id, errNonPositiveQuantity, quantity)
	}
	if !s.Direction.IsTradeable() {
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidDirection, s.Direction)
	}
	return &Order{
		Base: event.Base{
			Timestamp: s.Timestamp,
			Symbol:    s.Symbol,
			Reason:    s.Reason,
		},
		ID:         id,
		OrderType:  s.OrderType,
		Direction:  s.Direction,
		Quantity:   quantity,
		Price:      s.Price,
		StrategyID: s.StrategyID,
	}, nil
}

// GetType returns the event type
func (o *Order) GetType() common.EventType {
	return common.OrderEvent
}

// GetID returns the ID
func (o *Order) GetID() string {
	return o.ID
}

// GetDirection returns the side of the order
func (o *Order) GetDirection() common.Direction {
	return o.Direction
}

// GetOrderType returns the execution type
func (o *Order) GetOrderType() common.OrderType {
	return o.OrderType
}

// GetQuantity returns the number of shares requested
func (o *Order) GetQuantity() int64 {
	return o.Quantity
}

// IsConditional returns whether the order waits for a price threshold
func (o *Order) IsConditional() bool {
	return o.OrderType == common.Limit || o.OrderType == common.Stop
}

// String renders the event for logging
func (o *Order) String() string {
	str := fmt.Sprintf("ORDER %v %v %v %v qty=%v", o.ID, o.Symbol, o.Direction, o.OrderType, o.Quantity)
	if o.IsConditional() {
		str += fmt.Sprintf(" price=%v", o.Price)
	}
	return str
}
