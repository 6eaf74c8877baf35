package commission

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Commission models selectable from config
const (
	FlatModel       = "flat"
	PerShareModel   = "per-share"
	PercentageModel = "percentage"
)

var (
	errNegativeValue   = errors.New("commission value must not be negative")
	errUnknownModel    = errors.New("unknown commission model")
	errPercentageRange = errors.New("percentage commission must be below 100")
)

// Model calculates the commission charged for a fill
// openingFill is true for the first fill of an order
type Model interface {
	Name() string
	Calculate(quantity int64, price decimal.Decimal, openingFill bool) decimal.Decimal
}

// Flat charges a fixed fee once per order
type Flat struct {
	Fee decimal.Decimal
}

// PerShare charges a fee for every share filled
type PerShare struct {
	Rate decimal.Decimal
}

// Percentage charges a percentage of the filled notional
type Percentage struct {
	Rate decimal.Decimal
}
