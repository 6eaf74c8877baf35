package data

import (
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarket(t *testing.T, symbol string, price float64, ts int64) *market.Market {
	t.Helper()
	m, err := market.New(symbol, price, ts, 0)
	require.NoError(t, err)
	return m
}

func TestAppendStream(t *testing.T) {
	t.Parallel()
	var d Feed
	err := d.AppendStream(nil)
	assert.ErrorIs(t, err, errNilMarket)
	assert.ErrorIs(t, err, common.ErrInvalidData)

	require.NoError(t, d.AppendStream(
		newMarket(t, "AAPL", 100, 2),
		newMarket(t, "MSFT", 200, 1),
		newMarket(t, "AAPL", 101, 2),
	))
	assert.Equal(t, 3, d.Len())

	err = d.AppendStream(newMarket(t, "AAPL", 99, 1))
	assert.ErrorIs(t, err, errTimestampDecreasing)
	assert.Equal(t, 3, d.Len())

	require.NoError(t, d.AppendStream(newMarket(t, "MSFT", 201, 1)))
	assert.Equal(t, 4, d.Len())
}

func TestNext(t *testing.T) {
	t.Parallel()
	var d Feed
	_, ok := d.Next()
	assert.False(t, ok)
	assert.Nil(t, d.Latest())
	assert.False(t, d.IsLastEvent())

	first := newMarket(t, "AAPL", 100, 1)
	second := newMarket(t, "AAPL", 105, 2)
	require.NoError(t, d.AppendStream(first, second))

	m, ok := d.Next()
	require.True(t, ok)
	assert.Same(t, first, m)
	assert.Same(t, first, d.Latest())
	assert.Equal(t, []*market.Market{first}, d.History())
	assert.Equal(t, []*market.Market{second}, d.List())
	assert.False(t, d.IsLastEvent())

	m, ok = d.Next()
	require.True(t, ok)
	assert.Same(t, second, m)
	assert.True(t, d.IsLastEvent())
	assert.Equal(t, 2, d.Offset())

	_, ok = d.Next()
	assert.False(t, ok)

	d.Reset()
	assert.Zero(t, d.Len())
	assert.Zero(t, d.Offset())
	assert.NoError(t, d.AppendStream(newMarket(t, "AAPL", 1, 0)), "reset clears per symbol timestamps")
}
