package holdings

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errZeroQuantity     = errors.New("position update quantity must not be zero")
	errNonPositivePrice = errors.New("position update price must be greater than zero")
	errSymbolMismatch   = errors.New("symbol does not match position")
)

// Position is the holding of one symbol within the portfolio
// A negative quantity is a short position
type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	AvgPrice decimal.Decimal `json:"average-price"`
	// LatestPrice is the most recent price the position was valued at
	LatestPrice decimal.Decimal `json:"latest-price"`
	MarketValue decimal.Decimal `json:"market-value"`
	RealisedPNL decimal.Decimal `json:"realised-pnl"`
	// BoughtQuantity and SoldQuantity are lifetime totals
	BoughtQuantity int64 `json:"bought-quantity"`
	SoldQuantity   int64 `json:"sold-quantity"`
}
