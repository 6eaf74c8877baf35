package order

import (
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil, "1", 1)
	assert.ErrorIs(t, err, common.ErrNilEvent)

	s, err := signal.New("AAPL", 5, common.Buy, "SMA_3")
	require.NoError(t, err)
	s.AppendReason("price above mean")

	_, err = New(s, "", 1)
	assert.ErrorIs(t, err, errEmptyID)
	_, err = New(s, "1", 0)
	assert.ErrorIs(t, err, errNonPositiveQuantity)
	assert.ErrorIs(t, err, common.ErrInvalidData)

	o, err := New(s, "abc", 10)
	require.NoError(t, err)
	assert.Equal(t, common.OrderEvent, o.GetType())
	assert.Equal(t, "abc", o.GetID())
	assert.Equal(t, "AAPL", o.GetSymbol())
	assert.Equal(t, int64(5), o.GetTimestamp())
	assert.Equal(t, common.Buy, o.GetDirection())
	assert.Equal(t, common.Market, o.GetOrderType())
	assert.Equal(t, int64(10), o.GetQuantity())
	assert.Equal(t, "SMA_3", o.StrategyID)
	assert.Equal(t, "price above mean", o.GetReason())
	assert.False(t, o.IsConditional())
	assert.Equal(t, "ORDER abc AAPL BUY MARKET qty=10", o.String())
}

func TestNewConditional(t *testing.T) {
	t.Parallel()
	s, err := signal.New("AAPL", 5, common.Sell, "")
	require.NoError(t, err)
	require.NoError(t, s.SetOrderType(common.Stop, decimal.NewFromInt(90)))

	o, err := New(s, "x", 3)
	require.NoError(t, err)
	assert.True(t, o.IsConditional())
	assert.True(t, o.Price.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "ORDER x AAPL SELL STOP qty=3 price=90", o.String())

	s.Direction = common.DoNothing
	_, err = New(s, "y", 3)
	assert.ErrorIs(t, err, common.ErrInvalidDirection)
}
