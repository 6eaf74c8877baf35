package event

// Base is the underlying event across all actions that occur for the backtester
// Market, signal, order and fill events all contain the base event and store
// important and consistent information
type Base struct {
	Offset    int64  `json:"offset"`
	Timestamp int64  `json:"timestamp"`
	Symbol    string `json:"symbol"`
	Reason    string `json:"reason,omitempty"`
}
