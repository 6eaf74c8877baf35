package common

import (
	"fmt"
	"strings"
)

// String returns the readable name of an event type
func (e EventType) String() string {
	switch e {
	case MarketEvent:
		return "MARKET"
	case SignalEvent:
		return "SIGNAL"
	case OrderEvent:
		return "ORDER"
	case FillEvent:
		return "FILL"
	default:
		return "UNKNOWN"
	}
}

// IsTradeable returns whether the direction results in an order
func (d Direction) IsTradeable() bool {
	return d == Buy || d == Sell
}

// Lower returns the direction in lower case for logging
func (d Direction) Lower() string {
	return strings.ToLower(string(d))
}

// Opposite returns the opposite side of a tradeable direction
func (d Direction) Opposite() Direction {
	switch d {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		return d
	}
}

// CouldNot returns the rejected equivalent of a tradeable direction
func (d Direction) CouldNot() Direction {
	switch d {
	case Buy:
		return CouldNotBuy
	case Sell:
		return CouldNotSell
	default:
		return DoNothing
	}
}

// ParseDirection converts a config or user string into a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Buy):
		return Buy, nil
	case string(Sell):
		return Sell, nil
	default:
		return "", fmt.Errorf("%w %w '%v'", ErrInvalidData, ErrInvalidDirection, s)
	}
}

// ParseOrderType converts a config or user string into an OrderType.
// An empty string defaults to a market order
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(Market):
		return Market, nil
	case string(Limit):
		return Limit, nil
	case string(Stop):
		return Stop, nil
	default:
		return "", fmt.Errorf("%w %w '%v'", ErrInvalidData, ErrInvalidOrderType, s)
	}
}

// IsValid returns whether the order type is supported
func (o OrderType) IsValid() bool {
	return o == Market || o == Limit || o == Stop
}
