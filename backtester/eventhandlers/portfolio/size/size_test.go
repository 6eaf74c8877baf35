package size

import (
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignal(t *testing.T, strength float64) *signal.Signal {
	t.Helper()
	s, err := signal.New("AAPL", 1, common.Buy, "")
	require.NoError(t, err)
	require.NoError(t, s.SetStrength(strength))
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()
	s, err := New("", 10, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, FixedMethod, s.Name())

	s, err = New("Fraction", 0, decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	assert.Equal(t, FractionMethod, s.Name())

	_, err = New("kelly", 1, decimal.Zero)
	assert.ErrorIs(t, err, errUnknownMethod)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = New(FixedMethod, 0, decimal.Zero)
	assert.ErrorIs(t, err, errInvalidQuantity)

	_, err = New(FractionMethod, 0, decimal.NewFromFloat(1.5))
	assert.ErrorIs(t, err, errInvalidFraction)
}

func TestFixedSizeSignal(t *testing.T) {
	t.Parallel()
	f, err := NewFixed(10)
	require.NoError(t, err)

	_, err = f.SizeSignal(nil, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, common.ErrNilEvent)

	q, err := f.SizeSignal(newSignal(t, 1), decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, int64(10), q)

	q, err = f.SizeSignal(newSignal(t, 0.55), decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, int64(5), q)

	q, err = f.SizeSignal(newSignal(t, 0), decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)
	assert.Zero(t, q)
}

func TestFractionSizeSignal(t *testing.T) {
	t.Parallel()
	f, err := NewFraction(decimal.NewFromFloat(0.1))
	require.NoError(t, err)

	q, err := f.SizeSignal(newSignal(t, 1), decimal.NewFromInt(105), decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, int64(95), q)

	q, err = f.SizeSignal(newSignal(t, 2), decimal.NewFromInt(105), decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, int64(190), q)

	q, err = f.SizeSignal(newSignal(t, 1), decimal.NewFromInt(105), decimal.NewFromInt(-5))
	require.NoError(t, err)
	assert.Zero(t, q)

	_, err = f.SizeSignal(newSignal(t, 1), decimal.Zero, decimal.NewFromInt(100000))
	assert.ErrorIs(t, err, errNonPositivePrice)
}
