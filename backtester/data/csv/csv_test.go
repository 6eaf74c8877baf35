package csv

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Parallel()
	resp, err := Read(strings.NewReader("symbol,timestamp,price,volume\n# comment\nAAPL,1,100.5,300\nMSFT, 2, 200\n"))
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "AAPL", resp[0].Symbol)
	assert.Equal(t, int64(1), resp[0].Timestamp)
	assert.Equal(t, 100.5, resp[0].GetPriceFloat())
	assert.Equal(t, int64(300), resp[0].Volume)
	assert.Equal(t, "MSFT", resp[1].Symbol)
	assert.Zero(t, resp[1].Volume)
}

func TestReadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", errEmptyFile},
		{"header only", "symbol,timestamp,price\n", errEmptyFile},
		{"columns", "AAPL,1\n", errInvalidColumnCount},
		{"timestamp", "AAPL,one,100\n", common.ErrInvalidData},
		{"price", "AAPL,1,abc\n", common.ErrInvalidData},
		{"volume", "AAPL,1,100,many\n", common.ErrInvalidData},
		{"negative price", "AAPL,1,-100\n", common.ErrInvalidData},
		{"empty symbol", ",1,100\n", common.ErrInvalidData},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tc.input))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoadData(t *testing.T) {
	t.Parallel()
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, common.ErrInvalidData)

	resp, err := LoadData(filepath.Join("testdata", "aapl.csv"))
	require.NoError(t, err)
	assert.Len(t, resp, 40)
	for i := 1; i < len(resp); i++ {
		assert.GreaterOrEqual(t, resp[i].Timestamp, resp[i-1].Timestamp)
	}
}
