package sma

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/base"
)

const (
	// Name is the strategy name
	Name = "sma"
	// DefaultWindow is the number of prices averaged when none is configured
	DefaultWindow = 20
	windowSizeKey = "window-size"
	description   = `The simple moving average strategy compares each price with the mean of the most recent window of prices for its symbol. It signals to buy when price moves above the mean and to sell when it moves below, only signalling when that relationship changes`
)

var errInvalidWindow = errors.New("window size must be greater than zero")

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	window int
}
