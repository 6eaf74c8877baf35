package size

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// Sizing methods selectable from config
const (
	FixedMethod    = "fixed"
	FractionMethod = "fraction"
)

var (
	errInvalidQuantity  = errors.New("fixed quantity must be greater than zero")
	errInvalidFraction  = errors.New("equity fraction must be greater than zero and at most one")
	errUnknownMethod    = errors.New("unknown sizing method")
	errNonPositivePrice = errors.New("cannot size against a non-positive price")
)

// Sizer turns a signal into a desired whole share quantity
// Implementations must be monotonic in the signal's strength
type Sizer interface {
	Name() string
	SizeSignal(s *signal.Signal, price, equity decimal.Decimal) (int64, error)
}

// Fixed sizes every signal at Quantity multiplied by strength
type Fixed struct {
	Quantity int64
}

// Fraction sizes every signal at a share of total equity multiplied by strength
type Fraction struct {
	Fraction decimal.Decimal
}
