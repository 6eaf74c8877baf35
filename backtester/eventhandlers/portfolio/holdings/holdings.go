package holdings

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/shopspring/decimal"
)

// NewPosition creates a flat position for a symbol
func NewPosition(symbol string) *Position {
	return &Position{Symbol: symbol}
}

// UpdatePosition applies a signed quantity change executed at price
// Adding to a position moves the average price to the volume weighted cost,
// reducing it realises profit and loss against the average price and leaves
// the average untouched. A position which flips side starts again at price
func (p *Position) UpdatePosition(quantity int64, price decimal.Decimal) error {
	if quantity == 0 {
		return fmt.Errorf("%w %v: %w", common.ErrInvalidData, p.Symbol, errZeroQuantity)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, p.Symbol, errNonPositivePrice, price)
	}
	previous := p.Quantity
	updated := previous + quantity
	switch {
	case previous == 0 || sameSign(previous, quantity):
		previousCost := p.AvgPrice.Mul(decimal.NewFromInt(abs(previous)))
		addedCost := price.Mul(decimal.NewFromInt(abs(quantity)))
		p.AvgPrice = previousCost.Add(addedCost).Div(decimal.NewFromInt(abs(updated)))
	default:
		closed := min(abs(quantity), abs(previous))
		pnl := price.Sub(p.AvgPrice).Mul(decimal.NewFromInt(closed))
		if previous < 0 {
			pnl = pnl.Neg()
		}
		p.RealisedPNL = p.RealisedPNL.Add(pnl)
		switch {
		case updated == 0:
			p.AvgPrice = decimal.Zero
		case !sameSign(previous, updated):
			p.AvgPrice = price
		}
	}
	if quantity > 0 {
		p.BoughtQuantity += quantity
	} else {
		p.SoldQuantity -= quantity
	}
	p.Quantity = updated
	if p.LatestPrice.IsZero() {
		p.LatestPrice = price
	}
	p.MarketValue = p.MarketValueAt(p.LatestPrice)
	return nil
}

// Update applies a fill event to the position
func (p *Position) Update(f *fill.Fill) error {
	if f == nil {
		return common.ErrNilEvent
	}
	if f.Symbol != p.Symbol {
		return fmt.Errorf("%w %v %w %v", common.ErrInvalidData, f.Symbol, errSymbolMismatch, p.Symbol)
	}
	switch f.Direction {
	case common.Buy:
		return p.UpdatePosition(f.Quantity, f.FillPrice)
	case common.Sell:
		return p.UpdatePosition(-f.Quantity, f.FillPrice)
	default:
		return fmt.Errorf("%w %w '%v'", common.ErrInvalidData, common.ErrInvalidDirection, f.Direction)
	}
}

// UpdateValue revalues the position at the latest price
func (p *Position) UpdateValue(price decimal.Decimal) {
	p.LatestPrice = price
	p.MarketValue = p.MarketValueAt(price)
}

// MarketValueAt returns what the position is worth at price
func (p *Position) MarketValueAt(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(p.Quantity))
}

// UnrealisedPNL returns the open profit and loss at the latest price
func (p *Position) UnrealisedPNL() decimal.Decimal {
	if p.Quantity == 0 {
		return decimal.Zero
	}
	return p.LatestPrice.Sub(p.AvgPrice).Mul(decimal.NewFromInt(p.Quantity))
}

// GetSymbol returns the symbol
func (p *Position) GetSymbol() string {
	return p.Symbol
}

// GetQuantity returns the signed quantity held
func (p *Position) GetQuantity() int64 {
	return p.Quantity
}

// GetAvgPrice returns the volume weighted entry price
func (p *Position) GetAvgPrice() decimal.Decimal {
	return p.AvgPrice
}

// GetMarketValue returns quantity multiplied by the latest price
func (p *Position) GetMarketValue() decimal.Decimal {
	return p.MarketValue
}

// GetRealisedPNL returns the profit and loss locked in by reducing trades
func (p *Position) GetRealisedPNL() decimal.Decimal {
	return p.RealisedPNL
}

func sameSign(a, b int64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func abs(i int64) int64 {
	if i < 0 {
		return -i
	}
	return i
}
