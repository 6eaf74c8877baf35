package signal

import (
	"math"
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	s, err := New("AAPL", 2, common.Buy, "SMA_20")
	require.NoError(t, err)
	assert.Equal(t, common.SignalEvent, s.GetType())
	assert.Equal(t, common.Buy, s.GetDirection())
	assert.True(t, s.GetStrength().Equal(decimal.NewFromInt(1)))
	assert.Equal(t, common.Market, s.GetOrderType())
	assert.True(t, s.GetPrice().IsZero())
	assert.Equal(t, "SMA_20", s.GetStrategyID())
	assert.Equal(t, "SIGNAL AAPL BUY MARKET strength=1 strategy=SMA_20", s.String())

	_, err = New("AAPL", 2, common.DoNothing, "")
	assert.ErrorIs(t, err, common.ErrInvalidDirection)
	assert.ErrorIs(t, err, common.ErrInvalidData)

	_, err = New("", 2, common.Buy, "")
	assert.ErrorIs(t, err, common.ErrInvalidData)
}

func TestSetStrength(t *testing.T) {
	t.Parallel()
	s, err := New("AAPL", 2, common.Sell, "")
	require.NoError(t, err)
	require.NoError(t, s.SetStrength(0.5))
	assert.True(t, s.GetStrength().Equal(decimal.NewFromFloat(0.5)))
	require.NoError(t, s.SetStrength(0))

	assert.ErrorIs(t, s.SetStrength(-1), errNegativeStrength)
	assert.ErrorIs(t, s.SetStrength(math.Inf(1)), errNegativeStrength)
}

func TestSetOrderType(t *testing.T) {
	t.Parallel()
	s, err := New("AAPL", 2, common.Buy, "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetOrderType(common.Limit, decimal.Zero), errThresholdRequired)
	assert.ErrorIs(t, s.SetOrderType(common.Market, decimal.NewFromInt(5)), errUnexpectedPrice)
	assert.ErrorIs(t, s.SetOrderType("FOK", decimal.NewFromInt(5)), common.ErrInvalidOrderType)

	require.NoError(t, s.SetOrderType(common.Limit, decimal.NewFromInt(50)))
	assert.Equal(t, common.Limit, s.GetOrderType())
	assert.True(t, s.GetPrice().Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "SIGNAL AAPL BUY LIMIT strength=1 price=50", s.String())
}
