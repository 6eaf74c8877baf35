package compliance

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// Order statuses recorded in snapshots once an order is resolved
const (
	Filled    = "FILLED"
	Cancelled = "CANCELLED"
	Expired   = "EXPIRED"
)

var (
	errDuplicateOrder   = errors.New("order already tracked")
	errUnknownOrder     = errors.New("fill references an order which was never issued")
	errOrderMismatch    = errors.New("fill does not match order")
	errOverfill         = errors.New("fill quantity exceeds remaining order quantity")
	errSnapshotNotFound = errors.New("snapshot not found")
)

// Manager is the ledger of every order issued by the portfolio
// Fills are only accepted when they match an open order
type Manager struct {
	open      map[string]*Entry
	sequence  []string
	Snapshots []Snapshot
}

// Entry tracks an open order along with what it has reserved
type Entry struct {
	Order     *order.Order
	Remaining int64
	// ReservedCash is held back from available cash, covering notional and
	// commission of a buy or the commission of a sell
	ReservedCash decimal.Decimal
}

// Snapshot records the resolution of an order to allow for finer detail tracking
type Snapshot struct {
	Offset    int64           `json:"offset"`
	Timestamp int64           `json:"timestamp"`
	OrderID   string          `json:"order-id"`
	Symbol    string          `json:"symbol"`
	Direction string          `json:"direction"`
	Requested int64           `json:"requested"`
	Filled    int64           `json:"filled"`
	Status    string          `json:"status"`
	Reserved  decimal.Decimal `json:"reserved"`
}
