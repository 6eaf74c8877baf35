package compliance

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// NewManager returns an empty ledger
func NewManager() *Manager {
	return &Manager{open: make(map[string]*Entry)}
}

// Reset clears all open orders and snapshots
func (m *Manager) Reset() {
	m.open = make(map[string]*Entry)
	m.sequence = nil
	m.Snapshots = nil
}

// AddOrder starts tracking an order along with the cash it reserves
func (m *Manager) AddOrder(o *order.Order, reservedCash decimal.Decimal) error {
	if o == nil {
		return common.ErrNilEvent
	}
	if m.open == nil {
		m.open = make(map[string]*Entry)
	}
	if _, ok := m.open[o.ID]; ok {
		return fmt.Errorf("%w %w %v", common.ErrInvalidData, errDuplicateOrder, o.ID)
	}
	m.open[o.ID] = &Entry{
		Order:        o,
		Remaining:    o.Quantity,
		ReservedCash: reservedCash,
	}
	m.sequence = append(m.sequence, o.ID)
	return nil
}

// ApplyFill validates a fill against its open order and reduces the remaining
// quantity. It returns the cash reservation released by the fill
func (m *Manager) ApplyFill(f *fill.Fill) (decimal.Decimal, error) {
	if f == nil {
		return decimal.Zero, common.ErrNilEvent
	}
	e, ok := m.open[f.OrderID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %w %v", common.ErrInvalidData, errUnknownOrder, f.OrderID)
	}
	if e.Order.Symbol != f.Symbol || e.Order.Direction != f.Direction {
		return decimal.Zero, fmt.Errorf("%w %w %v: order %v %v, fill %v %v",
			common.ErrInvalidData, errOrderMismatch, f.OrderID, e.Order.Symbol, e.Order.Direction, f.Symbol, f.Direction)
	}
	if f.Quantity > e.Remaining {
		return decimal.Zero, fmt.Errorf("%w %w %v: %v > %v", common.ErrInvalidData, errOverfill, f.OrderID, f.Quantity, e.Remaining)
	}
	released := e.ReservedCash
	if !f.Final && f.Quantity < e.Remaining {
		released = e.ReservedCash.Mul(decimal.NewFromInt(f.Quantity)).Div(decimal.NewFromInt(e.Remaining))
	}
	e.Remaining -= f.Quantity
	e.ReservedCash = e.ReservedCash.Sub(released)
	switch {
	case e.Remaining == 0:
		m.close(e, f.Offset, f.Timestamp, Filled)
	case f.Final:
		m.close(e, f.Offset, f.Timestamp, Cancelled)
	}
	return released, nil
}

// Release stops tracking an open order which will never fill, returning
// the cash it still had reserved
func (m *Manager) Release(orderID string, offset, timestamp int64) (decimal.Decimal, error) {
	e, ok := m.open[orderID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %w %v", common.ErrInvalidData, errUnknownOrder, orderID)
	}
	released := e.ReservedCash
	e.ReservedCash = decimal.Zero
	m.close(e, offset, timestamp, Expired)
	return released, nil
}

func (m *Manager) close(e *Entry, offset, timestamp int64, status string) {
	m.Snapshots = append(m.Snapshots, Snapshot{
		Offset:    offset,
		Timestamp: timestamp,
		OrderID:   e.Order.ID,
		Symbol:    e.Order.Symbol,
		Direction: string(e.Order.Direction),
		Requested: e.Order.Quantity,
		Filled:    e.Order.Quantity - e.Remaining,
		Status:    status,
		Reserved:  e.ReservedCash,
	})
	delete(m.open, e.Order.ID)
	for i := range m.sequence {
		if m.sequence[i] == e.Order.ID {
			m.sequence = append(m.sequence[:i], m.sequence[i+1:]...)
			break
		}
	}
}

// ReservedCash returns the total cash held back by open orders
func (m *Manager) ReservedCash() decimal.Decimal {
	total := decimal.Zero
	for _, e := range m.open {
		total = total.Add(e.ReservedCash)
	}
	return total
}

// ReservedShares returns the quantity still to be sold by open sell orders
// for a symbol
func (m *Manager) ReservedShares(symbol string) int64 {
	var total int64
	for _, e := range m.open {
		if e.Order.Symbol == symbol && e.Order.Direction == common.Sell {
			total += e.Remaining
		}
	}
	return total
}

// GetOpenOrders returns open entries in the order they were issued
func (m *Manager) GetOpenOrders() []Entry {
	resp := make([]Entry, 0, len(m.sequence))
	for _, id := range m.sequence {
		resp = append(resp, *m.open[id])
	}
	return resp
}

// GetSnapshot returns the snapshot of a resolved order
func (m *Manager) GetSnapshot(orderID string) (Snapshot, error) {
	for i := len(m.Snapshots) - 1; i >= 0; i-- {
		if m.Snapshots[i].OrderID == orderID {
			return m.Snapshots[i], nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w for %v", errSnapshotNotFound, orderID)
}
