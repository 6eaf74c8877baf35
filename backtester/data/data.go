package data

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
)

// AppendStream appends market events onto the stream in the order received.
// Events are validated individually and nothing is appended after the first
// invalid event
func (d *Feed) AppendStream(s ...*market.Market) error {
	if d.lastTimestamp == nil {
		d.lastTimestamp = make(map[string]int64)
	}
	for i := range s {
		if s[i] == nil {
			return fmt.Errorf("%w %w", common.ErrInvalidData, errNilMarket)
		}
		last, ok := d.lastTimestamp[s[i].Symbol]
		if ok && s[i].Timestamp < last {
			return fmt.Errorf("%w %w: %v %v < %v",
				common.ErrInvalidData,
				errTimestampDecreasing,
				s[i].Symbol,
				s[i].Timestamp,
				last)
		}
		d.lastTimestamp[s[i].Symbol] = s[i].Timestamp
		d.stream = append(d.stream, s[i])
	}
	return nil
}

// Next will return the next event in the stream and also shift the offset one
func (d *Feed) Next() (*market.Market, bool) {
	if len(d.stream) <= d.offset {
		return nil, false
	}
	ret := d.stream[d.offset]
	d.offset++
	d.latest = ret
	return ret, true
}

// Latest will return the latest streamed event
func (d *Feed) Latest() *market.Market {
	return d.latest
}

// History will return all previously streamed events
func (d *Feed) History() []*market.Market {
	return d.stream[:d.offset]
}

// List returns all events yet to be streamed
func (d *Feed) List() []*market.Market {
	return d.stream[d.offset:]
}

// Offset returns how many events have been streamed
func (d *Feed) Offset() int {
	return d.offset
}

// Len returns how many events have been appended
func (d *Feed) Len() int {
	return len(d.stream)
}

// IsLastEvent returns whether the latest streamed event is the final one
func (d *Feed) IsLastEvent() bool {
	return d.latest != nil && d.offset == len(d.stream)
}

// Reset loaded data to blank state
func (d *Feed) Reset() {
	d.stream = nil
	d.latest = nil
	d.offset = 0
	d.lastTimestamp = nil
}
