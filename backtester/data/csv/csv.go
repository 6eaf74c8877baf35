package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/log"
)

var (
	errInvalidColumnCount = errors.New("expected symbol,timestamp,price and optional volume columns")
	errEmptyFile          = errors.New("no market data rows found")
)

// header is skipped when found on the first row
var header = []string{"symbol", "timestamp", "price", "volume"}

// LoadData opens a csv file of ticks and converts every row to a market event
func LoadData(path string) ([]*market.Market, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %w", common.ErrInvalidData, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(log.BackTester, closeErr)
		}
	}()
	resp, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%v %w", path, err)
	}
	log.Debugf(log.BackTester, "loaded %v market events from %v", len(resp), path)
	return resp, nil
}

// Read parses rows of symbol,timestamp,price[,volume] in file order
func Read(r io.Reader) ([]*market.Market, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var resp []*market.Market
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w row %v: %w", common.ErrInvalidData, row, err)
		}
		if row == 1 && isHeader(record) {
			continue
		}
		m, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %v: %w", row, err)
		}
		resp = append(resp, m)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("%w %w", common.ErrInvalidData, errEmptyFile)
	}
	return resp, nil
}

func isHeader(record []string) bool {
	if len(record) < 3 {
		return false
	}
	for i := range record {
		if i >= len(header) || !strings.EqualFold(strings.TrimSpace(record[i]), header[i]) {
			return false
		}
	}
	return true
}

func parseRecord(record []string) (*market.Market, error) {
	if len(record) < 3 || len(record) > 4 {
		return nil, fmt.Errorf("%w %w, received %v", common.ErrInvalidData, errInvalidColumnCount, len(record))
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w timestamp: %w", common.ErrInvalidData, err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w price: %w", common.ErrInvalidData, err)
	}
	var volume int64
	if len(record) == 4 && strings.TrimSpace(record[3]) != "" {
		volume, err = strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w volume: %w", common.ErrInvalidData, err)
		}
	}
	return market.New(strings.TrimSpace(record[0]), price, ts, volume)
}
