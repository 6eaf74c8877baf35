package common

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Version is the current release of the backtester
const Version = "1.0.0"

// EventType identifies which component owns an event
type EventType uint8

// Event types in dispatch order of a single market tick
const (
	UnknownEvent EventType = iota
	MarketEvent
	SignalEvent
	OrderEvent
	FillEvent
)

// Direction is the side of a signal, order or fill
type Direction string

// Directions supported by the backtester
const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
	// DoNothing is an explicit signal for the backtester to not perform an action
	DoNothing Direction = "DO NOTHING"
	// CouldNotBuy is flagged when a BUY signal is raised in the strategy/signal phase, but the
	// portfolio manager cannot place an order
	CouldNotBuy Direction = "COULD NOT BUY"
	// CouldNotSell is flagged when a SELL signal is raised in the strategy/signal phase, but the
	// portfolio manager cannot place an order
	CouldNotSell Direction = "COULD NOT SELL"
)

// OrderType determines how an order is executed by the simulated venue
type OrderType string

// Order types supported by the execution handler
const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
	Stop   OrderType = "STOP"
)

var (
	// ErrInvalidConfiguration is the category of every setup and registration
	// error, all of which are fatal before a run starts
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidData is the category of every rejected input, market data
	// or event construction error
	ErrInvalidData = errors.New("invalid data")
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is a common error for whenever a nil event occurs when it shouldn't have
	ErrNilEvent = errors.New("nil event received")
	// ErrInvalidDirection is returned when a direction is not BUY or SELL
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidOrderType is returned when an order type is not supported
	ErrInvalidOrderType = errors.New("invalid order type")
)

// Event is implemented by all four event kinds flowing through the queue
type Event interface {
	GetOffset() int64
	SetOffset(int64)
	GetType() EventType
	GetTimestamp() int64
	GetSymbol() string
	GetReason() string
	AppendReason(string)
	String() string
}

// Directioner dictates the side of an event
type Directioner interface {
	GetDirection() Direction
}

// PriceHolder is implemented by events carrying a positive price
type PriceHolder interface {
	GetPrice() decimal.Decimal
}
