package data

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
)

var (
	errNilMarket           = errors.New("nil market event")
	errTimestampDecreasing = errors.New("timestamp earlier than previous tick for symbol")
)

// Feed holds the pending market events of a run in arrival order
// It is not safe for concurrent use
type Feed struct {
	stream []*market.Market
	latest *market.Market
	offset int
	// lastTimestamp is tracked per symbol, ticks of different symbols may interleave freely
	lastTimestamp map[string]int64
}

// Streamer interface handles streaming market events to the engine
type Streamer interface {
	Next() (*market.Market, bool)
	Latest() *market.Market
	History() []*market.Market
	List() []*market.Market
	Offset() int
	Len() int
}

// Loader interface for appending validated market events
type Loader interface {
	AppendStream(...*market.Market) error
}

// Handler interface for loading and streaming data
type Handler interface {
	Loader
	Streamer
	Reset()
}
