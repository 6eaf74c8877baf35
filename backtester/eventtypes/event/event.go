package event

// GetOffset returns the arrival sequence number of the event
func (b *Base) GetOffset() int64 {
	return b.Offset
}

// SetOffset sets the arrival sequence number of the event
func (b *Base) SetOffset(o int64) {
	b.Offset = o
}

// GetTimestamp returns the timestamp
func (b *Base) GetTimestamp() int64 {
	return b.Timestamp
}

// GetSymbol returns the symbol
func (b *Base) GetSymbol() string {
	return b.Symbol
}

// GetReason returns the reason
func (b *Base) GetReason() string {
	return b.Reason
}

// AppendReason adds reasoning for a decision being made
func (b *Base) AppendReason(y string) {
	if y == "" {
		return
	}
	if b.Reason == "" {
		b.Reason = y
		return
	}
	b.Reason += ". " + y
}
