package engine

import (
	"errors"
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/config"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/commission"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/exchange/slippage"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/compliance"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/size"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/sma"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStrategyFailure = errors.New("strategy failure")

// plannedSignal is emitted when a tick with the matching timestamp arrives
type plannedSignal struct {
	direction common.Direction
	orderType common.OrderType
	price     decimal.Decimal
}

// scriptedStrategy emits signals on chosen timestamps and records what the
// portfolio held each time it was called
type scriptedStrategy struct {
	name      string
	plan      map[int64]plannedSignal
	failAt    int64
	portfolio portfolio.Handler
	seen      []int64
	held      []int64
	resets    int
}

func (s *scriptedStrategy) Name() string {
	return s.name
}

func (s *scriptedStrategy) Reset() {
	s.seen = nil
	s.held = nil
	s.resets++
}

func (s *scriptedStrategy) CalculateSignals(m *market.Market) ([]*signal.Signal, error) {
	if s.failAt != 0 && m.Timestamp == s.failAt {
		return nil, errStrategyFailure
	}
	s.seen = append(s.seen, m.Timestamp)
	if s.portfolio != nil {
		var qty int64
		if pos, ok := s.portfolio.GetPosition(m.Symbol); ok {
			qty = pos.Quantity
		}
		s.held = append(s.held, qty)
	}
	p, ok := s.plan[m.Timestamp]
	if !ok {
		return nil, nil
	}
	sig, err := signal.New(m.Symbol, m.Timestamp, p.direction, s.name)
	if err != nil {
		return nil, err
	}
	if p.orderType != "" && p.orderType != common.Market {
		if err = sig.SetOrderType(p.orderType, p.price); err != nil {
			return nil, err
		}
	}
	return []*signal.Signal{sig}, nil
}

func d(i int64) decimal.Decimal {
	return decimal.NewFromInt(i)
}

func newBackTest(t *testing.T, capital, quantity int64) *BackTest {
	t.Helper()
	sizer, err := size.NewFixed(quantity)
	require.NoError(t, err)
	bt, err := New(&Settings{
		InitialCapital: d(capital),
		Sizer:          sizer,
	})
	require.NoError(t, err)
	return bt
}

func addTicks(t *testing.T, bt *BackTest, symbol string, prices ...float64) {
	t.Helper()
	for i := range prices {
		require.NoError(t, bt.AddMarketData(symbol, prices[i], int64(i+1), 0))
	}
}

func assertEquityConsistent(t *testing.T, bt *BackTest) {
	t.Helper()
	p := bt.Portfolio()
	expected := p.GetCash()
	for _, pos := range p.GetPositions() {
		price, ok := p.GetCurrentPrice(pos.Symbol)
		require.True(t, ok)
		expected = expected.Add(price.Mul(decimal.NewFromInt(pos.Quantity)))
	}
	assert.True(t, expected.Equal(p.GetTotalValue()), "expected %v received %v", expected, p.GetTotalValue())
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil)
	assert.ErrorIs(t, err, errNilSettings)

	bt, err := New(&Settings{})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInitialCapital, bt.TotalValue())
	assert.True(t, bt.Statistic().InitialValue.Equal(decimal.NewFromFloat(config.DefaultInitialCapital)))

	_, err = New(&Settings{InitialCapital: d(-1)})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = New(&Settings{InitialCapital: d(1), MaximumVolumeRatio: d(2)})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	bt, err = NewWithCapital(250000)
	require.NoError(t, err)
	assert.Equal(t, 250000.0, bt.TotalValue())
	assert.NotNil(t, bt.Exchange())
	assert.NotNil(t, bt.Statistic())
}

func TestAddStrategy(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 1)
	assert.ErrorIs(t, bt.AddStrategy(nil), errNilStrategy)
	var nilStrategy *scriptedStrategy
	assert.ErrorIs(t, bt.AddStrategy(nilStrategy), errNilStrategy)

	s := &scriptedStrategy{name: "first"}
	require.NoError(t, bt.AddStrategy(s))
	err := bt.AddStrategy(s)
	assert.ErrorIs(t, err, errDuplicateStrategy)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{name: "first"}), "distinct instances may share a name")
	assert.Len(t, bt.Strategies(), 2)

	addTicks(t, bt, "AAPL", 10)
	more, err := bt.Step()
	require.NoError(t, err)
	assert.True(t, more)
	assert.ErrorIs(t, bt.AddStrategy(&scriptedStrategy{name: "late"}), errRunStarted)
}

func TestAddMarketData(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 1)
	assert.ErrorIs(t, bt.AddMarketData("", 1, 1, 0), common.ErrInvalidData)
	assert.ErrorIs(t, bt.AddMarketData("AAPL", 0, 1, 0), common.ErrInvalidData)
	assert.ErrorIs(t, bt.AddMarketData("AAPL", 1, 1, -1), common.ErrInvalidData)
	require.NoError(t, bt.AddMarketData("AAPL", 1, 5, 0))
	require.NoError(t, bt.AddMarketData("MSFT", 1, 1, 0))
	assert.ErrorIs(t, bt.AddMarketData("AAPL", 1, 4, 0), common.ErrInvalidData)
	require.NoError(t, bt.AddMarketData("AAPL", 1, 5, 0))
}

func TestRunValidation(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 1)
	addTicks(t, bt, "AAPL", 10)
	err := bt.Run()
	assert.ErrorIs(t, err, errNoStrategies)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	bt = newBackTest(t, 1000, 1)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{name: "s"}))
	assert.ErrorIs(t, bt.Run(), ErrNoMarketData)

	addTicks(t, bt, "AAPL", 10, 11)
	require.NoError(t, bt.Run())
	assert.True(t, bt.IsComplete())
	assert.ErrorIs(t, bt.Run(), ErrRunComplete)
	_, err = bt.Step()
	assert.ErrorIs(t, err, ErrRunComplete)
	assert.ErrorIs(t, bt.AddMarketData("AAPL", 1, 10, 0), ErrRunComplete)
}

func TestScenarioMarketBuy(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 10)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{
		name: "buy-second",
		plan: map[int64]plannedSignal{2: {direction: common.Buy}},
	}))
	addTicks(t, bt, "AAPL", 100, 105)
	require.NoError(t, bt.Run())

	p := bt.Portfolio()
	assert.True(t, p.GetCash().Equal(d(98950)), p.GetCash().String())
	pos, ok := p.GetPosition("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(10), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(d(105)))
	assert.Equal(t, 100000.0, bt.TotalValue())
	assertEquityConsistent(t, bt)

	stats := bt.Statistic()
	assert.Equal(t, int64(2), stats.MarketEvents)
	assert.Equal(t, int64(1), stats.SignalEvents)
	assert.Equal(t, int64(1), stats.OrderEvents)
	assert.Equal(t, int64(1), stats.FillEvents)
	assert.Len(t, stats.EquityCurve, 2)
}

func TestScenarioSellWithoutPosition(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 10)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{
		name: "sell-first",
		plan: map[int64]plannedSignal{1: {direction: common.Sell}},
	}))
	addTicks(t, bt, "AAPL", 100, 101)
	require.NoError(t, bt.Run())

	assert.Equal(t, 100000.0, bt.TotalValue())
	_, ok := bt.Portfolio().GetPosition("AAPL")
	assert.False(t, ok)
	stats := bt.Statistic()
	assert.Equal(t, int64(1), stats.SignalEvents)
	assert.Zero(t, stats.OrderEvents)
	assert.Zero(t, stats.FillEvents)
	assert.Equal(t, int64(1), stats.RejectedSignals)
	require.Len(t, stats.Rejections, 1)
	assert.Equal(t, string(common.CouldNotSell), stats.Rejections[0].Direction)
}

func TestScenarioRestingLimit(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 10)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{
		name: "limit",
		plan: map[int64]plannedSignal{1: {direction: common.Buy, orderType: common.Limit, price: d(50)}},
	}))
	addTicks(t, bt, "AAPL", 60, 55, 45, 40)

	for i := 0; i < 2; i++ {
		more, err := bt.Step()
		require.NoError(t, err)
		require.True(t, more)
		assert.Zero(t, bt.Statistic().FillEvents, "limit must rest while price is above 50")
		assert.Len(t, bt.Exchange().GetOpenOrders(), 1)
	}
	require.NoError(t, bt.Run())

	stats := bt.Statistic()
	require.Equal(t, int64(1), stats.FillEvents)
	require.Len(t, stats.Fills, 1)
	assert.True(t, stats.Fills[0].Price.Equal(d(50)))
	assert.Equal(t, int64(3), stats.Fills[0].Timestamp)
	assert.Zero(t, stats.ExpiredOrders)
	assert.True(t, bt.Portfolio().GetCash().Equal(d(99500)))
	assertEquityConsistent(t, bt)
}

func TestUntriggeredOrdersExpire(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 10)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{
		name: "stop",
		plan: map[int64]plannedSignal{1: {direction: common.Buy, orderType: common.Stop, price: d(80)}},
	}))
	addTicks(t, bt, "AAPL", 60, 61)

	more, err := bt.Step()
	require.NoError(t, err)
	require.True(t, more)
	p := bt.Portfolio()
	assert.True(t, p.GetAvailableCash().Equal(d(200)), p.GetAvailableCash().String())

	require.NoError(t, bt.Run())
	stats := bt.Statistic()
	assert.Equal(t, int64(1), stats.ExpiredOrders)
	require.Len(t, stats.Expired, 1)
	assert.Empty(t, bt.Exchange().GetOpenOrders())
	assert.True(t, p.GetAvailableCash().Equal(d(1000)))
	snap, err := p.GetComplianceManager().GetSnapshot(stats.Expired[0])
	require.NoError(t, err)
	assert.Equal(t, compliance.Expired, snap.Status)
}

func TestOrdering(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 1)
	plan := map[int64]plannedSignal{}
	for i := int64(1); i <= 4; i++ {
		plan[i] = plannedSignal{direction: common.Buy}
	}
	s := &scriptedStrategy{name: "every-tick", plan: plan}
	s.portfolio = bt.Portfolio()
	require.NoError(t, bt.AddStrategy(s))
	addTicks(t, bt, "AAPL", 10, 11, 12, 13)
	require.NoError(t, bt.Run())

	assert.Equal(t, []int64{1, 2, 3, 4}, s.seen)
	assert.Equal(t, []int64{0, 1, 2, 3}, s.held, "every fill of a tick is applied before the next tick")

	var types []string
	var previous int64
	for _, e := range bt.Statistic().Events {
		assert.Greater(t, e.Offset, previous)
		previous = e.Offset
		types = append(types, e.Type)
	}
	expected := make([]string, 0, 12)
	for i := 0; i < 4; i++ {
		expected = append(expected, common.SignalEvent.String(), common.OrderEvent.String(), common.FillEvent.String())
	}
	assert.Equal(t, expected, types)
}

func TestMultipleStrategiesRegistrationOrder(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 1)
	first := &scriptedStrategy{name: "first", plan: map[int64]plannedSignal{1: {direction: common.Buy}}}
	second := &scriptedStrategy{name: "second", plan: map[int64]plannedSignal{1: {direction: common.Buy}}}
	require.NoError(t, bt.AddStrategy(first))
	require.NoError(t, bt.AddStrategy(second))
	addTicks(t, bt, "AAPL", 10)
	require.NoError(t, bt.Run())

	var signals []string
	for _, e := range bt.Statistic().Events {
		if e.Type == common.SignalEvent.String() {
			signals = append(signals, e.Description)
		}
	}
	require.Len(t, signals, 2)
	assert.Contains(t, signals[0], "strategy=first")
	assert.Contains(t, signals[1], "strategy=second")
	assert.Equal(t, []string{"first", "second"}, bt.Statistic().StrategyNames)
}

func TestDispatchErrorIsFatal(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 1)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{name: "broken", failAt: 2}))
	addTicks(t, bt, "AAPL", 10, 11, 12)
	err := bt.Run()
	assert.ErrorIs(t, err, errStrategyFailure)
	assert.ErrorContains(t, err, "offset 2 MARKET")
	assert.False(t, bt.IsComplete())
}

func TestDispatchErrorAbortsUntilReset(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 1000, 1)
	s := &scriptedStrategy{name: "broken", failAt: 2}
	require.NoError(t, bt.AddStrategy(s))
	addTicks(t, bt, "AAPL", 10, 11, 12)
	require.ErrorIs(t, bt.Run(), errStrategyFailure)
	assert.ErrorIs(t, bt.Err(), errStrategyFailure)

	err := bt.Run()
	assert.ErrorIs(t, err, ErrRunAborted)
	assert.ErrorIs(t, err, errStrategyFailure)
	more, err := bt.Step()
	assert.False(t, more)
	assert.ErrorIs(t, err, ErrRunAborted)
	assert.ErrorIs(t, bt.AddMarketData("AAPL", 13, 4, 0), ErrRunAborted)
	assert.False(t, bt.IsComplete())
	assert.Equal(t, int64(1), bt.Statistic().MarketEvents, "no tick after the failure is processed")
	assert.Equal(t, []int64{1}, s.seen)

	bt.Reset()
	assert.NoError(t, bt.Err())
	s.failAt = 0
	addTicks(t, bt, "AAPL", 10, 11, 12)
	require.NoError(t, bt.Run())
	assert.True(t, bt.IsComplete())
	assert.Equal(t, int64(3), bt.Statistic().MarketEvents)
}

func TestSMAWarmup(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 10)
	s, err := sma.New(5)
	require.NoError(t, err)
	require.NoError(t, bt.AddStrategy(s))
	addTicks(t, bt, "AAPL", 100, 110, 120, 130)
	require.NoError(t, bt.Run())
	assert.Zero(t, bt.Statistic().SignalEvents)

	bt.Reset()
	addTicks(t, bt, "AAPL", 100, 110, 120, 130, 140)
	require.NoError(t, bt.Run())
	assert.Equal(t, int64(1), bt.Statistic().SignalEvents)
}

func TestReset(t *testing.T) {
	t.Parallel()
	bt := newBackTest(t, 100000, 10)
	s := &scriptedStrategy{name: "buy", plan: map[int64]plannedSignal{1: {direction: common.Buy}}}
	require.NoError(t, bt.AddStrategy(s))
	addTicks(t, bt, "AAPL", 100, 120)
	require.NoError(t, bt.Run())
	assert.Equal(t, 100200.0, bt.TotalValue())

	bt.Reset()
	assert.Equal(t, 1, s.resets)
	assert.Empty(t, s.seen)
	assert.False(t, bt.IsComplete())
	assert.Equal(t, 100000.0, bt.TotalValue())
	assert.Len(t, bt.Strategies(), 1)
	assert.Empty(t, bt.Statistic().EquityCurve)
	assert.ErrorIs(t, bt.Run(), ErrNoMarketData)
}

func runCSV(t *testing.T) *statistics.Statistic {
	t.Helper()
	cfg, err := config.ReadConfigFromFile("../config/examples/sma-aapl.json")
	require.NoError(t, err)
	cfg.StrategySettings[0].CustomSettings = map[string]any{"window-size": 5}
	bt, err := NewFromConfig(cfg)
	require.NoError(t, err)
	for {
		more, err := bt.Step()
		require.NoError(t, err)
		assertEquityConsistent(t, bt)
		if !more {
			break
		}
	}
	return bt.Statistic()
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	first := runCSV(t)
	second := runCSV(t)
	require.NotZero(t, first.FillEvents, "test data should cause trading")
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, first.Fills, second.Fills)
	assert.True(t, first.FinalValue.Equal(second.FinalValue))
	assert.Equal(t, first.EquityCurve, second.EquityCurve)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	_, err := NewFromConfig(nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	cfg := config.GenerateDefaultConfig()
	cfg.DataSettings.CSVPath = "missing.csv"
	_, err = NewFromConfig(cfg)
	assert.ErrorIs(t, err, common.ErrInvalidData)

	cfg, err = config.ReadConfigFromFile("../config/examples/sma-aapl.json")
	require.NoError(t, err)
	bt, err := NewFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, bt.Strategies(), 1)
	assert.Equal(t, "SMA_20", bt.Strategies()[0].Name())
	assert.Equal(t, commission.FlatModel, bt.Exchange().GetCommissionModel().Name())
	require.NoError(t, bt.Run())
	assert.Equal(t, int64(40), bt.Statistic().MarketEvents)
	assert.Equal(t, "sma-aapl", bt.Statistic().Nickname)
}

func TestPartialFillsThroughEngine(t *testing.T) {
	t.Parallel()
	sizer, err := size.NewFixed(100)
	require.NoError(t, err)
	slip, err := slippage.NewBasisPoints(decimal.Zero)
	require.NoError(t, err)
	bt, err := New(&Settings{
		InitialCapital:     d(100000),
		Sizer:              sizer,
		Slippage:           slip,
		MaximumVolumeRatio: decimal.NewFromFloat(0.5),
	})
	require.NoError(t, err)
	require.NoError(t, bt.AddStrategy(&scriptedStrategy{
		name: "limit",
		plan: map[int64]plannedSignal{1: {direction: common.Buy, orderType: common.Limit, price: d(50)}},
	}))
	require.NoError(t, bt.AddMarketData("AAPL", 60, 1, 100))
	require.NoError(t, bt.AddMarketData("AAPL", 50, 2, 100))
	require.NoError(t, bt.AddMarketData("AAPL", 45, 3, 100))
	require.NoError(t, bt.Run())

	stats := bt.Statistic()
	require.Len(t, stats.Fills, 2)
	assert.Equal(t, int64(50), stats.Fills[0].Quantity)
	assert.False(t, stats.Fills[0].Final)
	assert.Equal(t, int64(50), stats.Fills[1].Quantity)
	assert.True(t, stats.Fills[1].Final)
	pos, ok := bt.Portfolio().GetPosition("AAPL")
	require.True(t, ok)
	assert.Equal(t, int64(100), pos.Quantity)
	assertEquityConsistent(t, bt)
}
