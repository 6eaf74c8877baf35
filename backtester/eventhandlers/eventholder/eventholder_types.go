package eventholder

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/common"
)

var errNilEvent = errors.New("cannot append nil event")

// Holder contains the event queue for backtester processing
// It is not safe for concurrent use
type Holder struct {
	Queue []common.Event
	// nextOffset is the offset handed to the next appended event
	nextOffset int64
}

// EventHolder interface details what is expected of an event holder to perform
type EventHolder interface {
	Reset()
	AppendEvent(common.Event) error
	NextEvent() common.Event
	Len() int
}
