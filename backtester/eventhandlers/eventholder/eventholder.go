package eventholder

import (
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
)

// Reset returns struct to defaults
func (h *Holder) Reset() {
	h.Queue = nil
	h.nextOffset = 0
}

// AppendEvent adds an event to the end of the queue and stamps it with the
// next arrival offset
func (h *Holder) AppendEvent(e common.Event) error {
	if e == nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidData, errNilEvent)
	}
	h.nextOffset++
	e.SetOffset(h.nextOffset)
	h.Queue = append(h.Queue, e)
	return nil
}

// NextEvent removes the current event and returns the next event in the queue
func (h *Holder) NextEvent() (e common.Event) {
	if len(h.Queue) == 0 {
		return nil
	}
	e = h.Queue[0]
	h.Queue[0] = nil
	h.Queue = h.Queue[1:]
	return e
}

// Len returns the number of events waiting to be processed
func (h *Holder) Len() int {
	return len(h.Queue)
}
