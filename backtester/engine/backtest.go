package engine

import (
	"fmt"
	"reflect"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/eventdriven/gobacktester/log"
)

// AddStrategy registers a strategy to receive every market event. Strategies
// are called in registration order and are owned by the BackTest afterwards
func (bt *BackTest) AddStrategy(s strategies.Handler) error {
	if s == nil || (reflect.ValueOf(s).Kind() == reflect.Ptr && reflect.ValueOf(s).IsNil()) {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errNilStrategy)
	}
	if bt.started {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errRunStarted)
	}
	if reflect.TypeOf(s).Comparable() {
		for i := range bt.strategies {
			if reflect.TypeOf(bt.strategies[i]) == reflect.TypeOf(s) && bt.strategies[i] == s {
				return fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errDuplicateStrategy, s.Name())
			}
		}
	}
	bt.strategies = append(bt.strategies, s)
	log.Debugf(log.BackTester, "strategy %v registered", s.Name())
	return nil
}

// AddMarketData validates and appends a tick to the feed. Ticks are streamed
// in the order they are added
func (bt *BackTest) AddMarketData(symbol string, price float64, timestamp, volume int64) error {
	if bt.failed != nil {
		return fmt.Errorf("%w: %w", ErrRunAborted, bt.failed)
	}
	if bt.complete {
		return ErrRunComplete
	}
	m, err := market.New(symbol, price, timestamp, volume)
	if err != nil {
		return err
	}
	return bt.feed.AppendStream(m)
}

// Run executes the backtest until the feed is exhausted. Each tick and every
// event it causes is fully processed before the next tick is streamed
func (bt *BackTest) Run() error {
	for {
		more, err := bt.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step processes a single tick and every event derived from it. It returns
// false once the feed is exhausted and the run has been finalised. Any error
// while dispatching aborts the run until Reset is called
func (bt *BackTest) Step() (bool, error) {
	if bt.failed != nil {
		return false, fmt.Errorf("%w: %w", ErrRunAborted, bt.failed)
	}
	if bt.complete {
		return false, ErrRunComplete
	}
	if err := bt.start(); err != nil {
		return false, err
	}
	tick, ok := bt.feed.Next()
	if !ok {
		if err := bt.finish(); err != nil {
			return false, bt.abort(err)
		}
		return false, nil
	}
	if err := bt.EventQueue.AppendEvent(tick); err != nil {
		return false, bt.abort(err)
	}
	for ev := bt.EventQueue.NextEvent(); ev != nil; ev = bt.EventQueue.NextEvent() {
		if err := bt.handleEvent(ev); err != nil {
			return false, bt.abort(fmt.Errorf("offset %v %v event: %w", ev.GetOffset(), ev.GetType(), err))
		}
		if err := bt.statistic.AddEvent(ev); err != nil {
			return false, bt.abort(err)
		}
	}
	bt.statistic.AddEquity(tick.GetOffset(), tick.GetTimestamp(), bt.portfolio.GetTotalValue())
	return true, nil
}

// abort records err as fatal to the run and drops any undispatched events
func (bt *BackTest) abort(err error) error {
	bt.failed = err
	bt.EventQueue.Reset()
	log.Errorf(log.BackTester, "backtest aborted: %v", err)
	return err
}

// start validates the BackTest on the first call of a run
func (bt *BackTest) start() error {
	if bt.started {
		return nil
	}
	if len(bt.strategies) == 0 {
		return fmt.Errorf("%w %w", common.ErrInvalidConfiguration, errNoStrategies)
	}
	if bt.feed.Len() == 0 {
		return ErrNoMarketData
	}
	names := make([]string, len(bt.strategies))
	for i := range bt.strategies {
		names[i] = bt.strategies[i].Name()
	}
	bt.statistic.SetStrategyNames(names)
	bt.started = true
	log.Infof(log.BackTester, "running backtest of %v ticks with strategies %v", bt.feed.Len(), names)
	return nil
}

// handleEvent routes an event to the component which owns it
func (bt *BackTest) handleEvent(ev common.Event) error {
	log.Debugf(log.BackTester, "offset %v processing %v", ev.GetOffset(), ev)
	switch e := ev.(type) {
	case *market.Market:
		return bt.processMarketEvent(e)
	case *signal.Signal:
		return bt.processSignalEvent(e)
	case *order.Order:
		return bt.processOrderEvent(e)
	case *fill.Fill:
		return bt.processFillEvent(e)
	default:
		return fmt.Errorf("%w %T", errUnhandledEvent, ev)
	}
}

// processMarketEvent revalues the portfolio, triggers resting orders and
// then asks every strategy for signals
func (bt *BackTest) processMarketEvent(m *market.Market) error {
	err := bt.portfolio.UpdatePrice(m.Symbol, m.Price)
	if err != nil {
		return err
	}
	fills, err := bt.exchange.UpdatePrice(m)
	if err != nil {
		return err
	}
	for i := range fills {
		if err = bt.EventQueue.AppendEvent(fills[i]); err != nil {
			return err
		}
	}
	for i := range bt.strategies {
		var signals []*signal.Signal
		signals, err = bt.strategies[i].CalculateSignals(m)
		if err != nil {
			return fmt.Errorf("strategy %v: %w", bt.strategies[i].Name(), err)
		}
		for j := range signals {
			if signals[j] == nil {
				continue
			}
			if err = bt.EventQueue.AppendEvent(signals[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (bt *BackTest) processSignalEvent(s *signal.Signal) error {
	o, err := bt.portfolio.OnSignal(s)
	if err != nil {
		return err
	}
	if o == nil {
		rejections := bt.portfolio.GetRejections()
		if len(rejections) > 0 {
			bt.statistic.AddRejection(rejections[len(rejections)-1])
		}
		return nil
	}
	return bt.EventQueue.AppendEvent(o)
}

func (bt *BackTest) processOrderEvent(o *order.Order) error {
	f, err := bt.exchange.ExecuteOrder(o)
	if err != nil {
		return err
	}
	if f == nil {
		log.Debugf(log.BackTester, "order %v resting at %v", o.ID, o.Price)
		return nil
	}
	return bt.EventQueue.AppendEvent(f)
}

func (bt *BackTest) processFillEvent(f *fill.Fill) error {
	return bt.portfolio.OnFill(f)
}

// finish expires every resting order and calculates the run's statistics
func (bt *BackTest) finish() error {
	var timestamp int64
	if latest := bt.feed.Latest(); latest != nil {
		timestamp = latest.Timestamp
	}
	expired := bt.exchange.ExpireOpenOrders()
	for i := range expired {
		if err := bt.portfolio.ReleaseOrder(expired[i].ID, expired[i].Offset, timestamp); err != nil {
			return err
		}
		bt.statistic.AddExpiredOrder(expired[i])
	}
	if len(expired) > 0 {
		log.Warnf(log.BackTester, "%v resting orders expired at end of run", len(expired))
	}
	if err := bt.statistic.CalculateResults(bt.portfolio.GetTotalValue()); err != nil {
		return err
	}
	bt.complete = true
	log.Infof(log.BackTester, "backtest complete, total value %v", bt.portfolio.GetTotalValue().StringFixed(2))
	return nil
}

// Reset clears the feed, queue, portfolio, exchange and statistics so the
// BackTest can be run again. Registered strategies are kept and reset
func (bt *BackTest) Reset() {
	bt.EventQueue.Reset()
	bt.feed.Reset()
	bt.portfolio.Reset()
	bt.exchange.Reset()
	bt.statistic.Reset()
	for i := range bt.strategies {
		if r, ok := bt.strategies[i].(strategies.Resetter); ok {
			r.Reset()
		}
	}
	bt.started = false
	bt.complete = false
	bt.failed = nil
}

// IsComplete returns whether the run has been finalised
func (bt *BackTest) IsComplete() bool {
	return bt.complete
}

// TotalValue returns the current cash plus market value of every position
func (bt *BackTest) TotalValue() float64 {
	return bt.portfolio.GetTotalValue().InexactFloat64()
}

// Portfolio returns the portfolio for read access
func (bt *BackTest) Portfolio() portfolio.Handler {
	return bt.portfolio
}

// Exchange returns the simulated exchange for read access
func (bt *BackTest) Exchange() exchange.ExecutionHandler {
	return bt.exchange
}

// Statistic returns the run's statistics
func (bt *BackTest) Statistic() *statistics.Statistic {
	s, _ := bt.statistic.(*statistics.Statistic)
	return s
}

// Err returns the error which aborted the run, if any
func (bt *BackTest) Err() error {
	return bt.failed
}

// Strategies returns the registered strategies in registration order
func (bt *BackTest) Strategies() []strategies.Handler {
	return bt.strategies
}
