package portfolio

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/compliance"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/holdings"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/risk"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/eventdriven/gobacktester/log"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Setup creates a portfolio manager instance and sets private fields
func Setup(initialCapital decimal.Decimal, sh size.Sizer, r risk.Handler, est risk.CostEstimator) (*Portfolio, error) {
	if !initialCapital.IsPositive() {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errInvalidCapital, initialCapital)
	}
	if sh == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, errSizeManagerUnset)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, errRiskManagerUnset)
	}
	if est == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfiguration, errCostEstimatorUnset)
	}
	p := &Portfolio{
		initialCapital: initialCapital,
		sizeManager:    sh,
		riskManager:    r,
		estimator:      est,
	}
	p.SetNamespace(DefaultNamespace)
	p.Reset()
	return p, nil
}

// SetNamespace changes the namespace order ids are derived from
// Identical namespaces and signal sequences produce identical order ids
func (p *Portfolio) SetNamespace(name string) {
	if name == "" {
		name = DefaultNamespace
	}
	p.namespace = uuid.NewV5(uuid.NamespaceOID, name)
}

// Reset returns the portfolio manager to its initial capital with no positions
func (p *Portfolio) Reset() {
	p.cash = p.initialCapital
	p.totalValue = p.initialCapital
	p.positions = make(map[string]*holdings.Position)
	p.prices = make(map[string]decimal.Decimal)
	p.symbols = nil
	p.compliance = compliance.NewManager()
	p.orderSequence = 0
	p.rejections = nil
}

// OnSignal receives the event from the strategy on whether it has signalled to buy or sell
// The portfolio manager will size the order and assess the risk of the order. If the
// order survives it is returned for the exchange to execute, otherwise the rejection is
// recorded and a nil order is returned
func (p *Portfolio) OnSignal(s *signal.Signal) (*order.Order, error) {
	if s == nil {
		return nil, common.ErrNilEvent
	}
	if p.compliance == nil {
		return nil, errNotSetup
	}
	if !s.Direction.IsTradeable() {
		return nil, fmt.Errorf("%w %w '%v'", common.ErrInvalidData, errInvalidSignalTarget, s.Direction)
	}

	referencePrice := s.Price
	if s.OrderType == common.Market {
		latest, ok := p.prices[s.Symbol]
		if !ok {
			p.reject(s, "no market price for "+s.Symbol)
			return nil, nil
		}
		referencePrice = latest
	}

	quantity, err := p.sizeManager.SizeSignal(s, referencePrice, p.totalValue)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		p.reject(s, "sized order to 0")
		return nil, nil
	}

	var held int64
	if pos, ok := p.positions[s.Symbol]; ok {
		held = pos.Quantity
	}
	evaluation, err := p.riskManager.EvaluateOrder(&risk.Request{
		Symbol:        s.Symbol,
		Direction:     s.Direction,
		OrderType:     s.OrderType,
		Quantity:      quantity,
		Price:         referencePrice,
		AvailableCash: p.GetAvailableCash(),
		Sellable:      held - p.compliance.ReservedShares(s.Symbol),
	}, p.estimator)
	if err != nil {
		return nil, err
	}
	if evaluation.Quantity <= 0 {
		p.reject(s, evaluation.Reason)
		return nil, nil
	}

	p.orderSequence++
	o, err := order.New(s, p.nextOrderID(), evaluation.Quantity)
	if err != nil {
		return nil, err
	}
	o.AppendReason(evaluation.Reason)

	reserved := evaluation.Cost
	if err = p.compliance.AddOrder(o, reserved); err != nil {
		return nil, err
	}
	log.Debugf(log.Portfolio, "%v created from signal at offset %v, reserved %v", o, s.Offset, reserved)
	return o, nil
}

func (p *Portfolio) nextOrderID() string {
	return uuid.NewV5(p.namespace, strconv.FormatInt(p.orderSequence, 10)).String()
}

func (p *Portfolio) reject(s *signal.Signal, reason string) {
	r := Rejection{
		Offset:     s.Offset,
		Timestamp:  s.Timestamp,
		Symbol:     s.Symbol,
		Direction:  string(s.Direction.CouldNot()),
		StrategyID: s.StrategyID,
		Reason:     reason,
	}
	p.rejections = append(p.rejections, r)
	log.Warnf(log.Portfolio, "%v %v signal at offset %v rejected: %v", s.Symbol, s.Direction.Lower(), s.Offset, reason)
}

// OnFill processes the event after an order has been executed by the exchange
// It moves cash, updates the symbol's position and releases the order's reservation
func (p *Portfolio) OnFill(f *fill.Fill) error {
	if f == nil {
		return common.ErrNilEvent
	}
	if p.compliance == nil {
		return errNotSetup
	}
	released, err := p.compliance.ApplyFill(f)
	if err != nil {
		return err
	}
	pos, ok := p.positions[f.Symbol]
	if !ok {
		pos = holdings.NewPosition(f.Symbol)
	}
	if err = pos.Update(f); err != nil {
		return err
	}
	if !ok {
		p.positions[f.Symbol] = pos
		p.symbols = append(p.symbols, f.Symbol)
		sort.Strings(p.symbols)
	}

	notional := f.Notional()
	if f.Direction == common.Buy {
		p.cash = p.cash.Sub(notional)
	} else {
		p.cash = p.cash.Add(notional)
	}
	p.cash = p.cash.Sub(f.Commission)

	if latest, ok := p.prices[f.Symbol]; ok {
		pos.UpdateValue(latest)
	}
	p.recalculate()
	log.Debugf(log.Portfolio, "%v applied, released %v, cash %v total value %v", f, released, p.cash, p.totalValue)
	return nil
}

// UpdatePrice records the latest price of a symbol and revalues the portfolio
func (p *Portfolio) UpdatePrice(symbol string, price decimal.Decimal) error {
	if symbol == "" {
		return fmt.Errorf("%w: %w", common.ErrInvalidData, errEmptySymbol)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w %v %w: %v", common.ErrInvalidData, symbol, errNonPositivePrice, price)
	}
	if p.prices == nil {
		return errNotSetup
	}
	p.prices[symbol] = price
	if pos, ok := p.positions[symbol]; ok {
		pos.UpdateValue(price)
	}
	p.recalculate()
	return nil
}

// ReleaseOrder drops the reservation of an order which will never fill
func (p *Portfolio) ReleaseOrder(orderID string, offset, timestamp int64) error {
	if p.compliance == nil {
		return errNotSetup
	}
	released, err := p.compliance.Release(orderID, offset, timestamp)
	if err != nil {
		return err
	}
	log.Debugf(log.Portfolio, "order %v expired, released %v", orderID, released)
	return nil
}

// recalculate derives total value from scratch so it can never drift
func (p *Portfolio) recalculate() {
	total := p.cash
	for _, sym := range p.symbols {
		pos := p.positions[sym]
		price, ok := p.prices[sym]
		if !ok {
			price = pos.LatestPrice
		}
		total = total.Add(pos.MarketValueAt(price))
	}
	p.totalValue = total
}

// GetTotalValue returns cash plus the market value of every position
func (p *Portfolio) GetTotalValue() decimal.Decimal {
	return p.totalValue
}

// GetCash returns the cash balance
func (p *Portfolio) GetCash() decimal.Decimal {
	return p.cash
}

// GetAvailableCash returns cash not reserved by open orders
func (p *Portfolio) GetAvailableCash() decimal.Decimal {
	if p.compliance == nil {
		return p.cash
	}
	return p.cash.Sub(p.compliance.ReservedCash())
}

// GetInitialCapital returns the capital the portfolio started with
func (p *Portfolio) GetInitialCapital() decimal.Decimal {
	return p.initialCapital
}

// GetCurrentPrice returns the latest recorded price for a symbol
func (p *Portfolio) GetCurrentPrice(symbol string) (decimal.Decimal, bool) {
	price, ok := p.prices[symbol]
	return price, ok
}

// GetPosition returns a copy of the position for a symbol
func (p *Portfolio) GetPosition(symbol string) (holdings.Position, bool) {
	pos, ok := p.positions[symbol]
	if !ok {
		return holdings.Position{}, false
	}
	return *pos, true
}

// GetPositions returns copies of every position ordered by symbol
func (p *Portfolio) GetPositions() []holdings.Position {
	resp := make([]holdings.Position, 0, len(p.symbols))
	for _, sym := range p.symbols {
		resp = append(resp, *p.positions[sym])
	}
	return resp
}

// GetComplianceManager returns the order ledger
func (p *Portfolio) GetComplianceManager() *compliance.Manager {
	return p.compliance
}

// GetRejections returns every signal which could not become an order
func (p *Portfolio) GetRejections() []Rejection {
	return p.rejections
}
