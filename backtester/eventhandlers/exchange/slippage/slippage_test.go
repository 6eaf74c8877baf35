package slippage

import (
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasisPoints(t *testing.T) {
	t.Parallel()
	_, err := NewBasisPoints(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, errInvalidBasisPoints)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)
	_, err = NewBasisPoints(decimal.NewFromInt(10000))
	assert.ErrorIs(t, err, errInvalidBasisPoints)

	b, err := NewBasisPoints(decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, b.Rate.Equal(decimal.NewFromFloat(0.0025)))
}

func TestApplySlippage(t *testing.T) {
	t.Parallel()
	b, err := NewBasisPoints(decimal.NewFromInt(10))
	require.NoError(t, err)
	price := decimal.NewFromInt(100)
	assert.True(t, b.ApplySlippage(common.Buy, price).Equal(decimal.NewFromFloat(100.1)))
	assert.True(t, b.ApplySlippage(common.Sell, price).Equal(decimal.NewFromFloat(99.9)))
	assert.True(t, b.ApplySlippage(common.DoNothing, price).Equal(price))

	none, err := NewBasisPoints(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, none.ApplySlippage(common.Buy, price).Equal(price))
}
