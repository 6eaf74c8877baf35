package strategies

import (
	"github.com/eventdriven/gobacktester/backtester/eventtypes/market"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/signal"
)

// Handler defines all functions required to run strategies against data events
// Returned signals are enqueued by the engine in the order they are returned
type Handler interface {
	Name() string
	CalculateSignals(*market.Market) ([]*signal.Signal, error)
}

// Describer is implemented by strategies which can explain themselves
type Describer interface {
	Description() string
}

// CustomSettingsSetter is implemented by strategies configurable from the
// strategy-settings custom-settings field
type CustomSettingsSetter interface {
	SetCustomSettings(map[string]any) error
	SetDefaults()
}

// Resetter is implemented by strategies holding state between events
type Resetter interface {
	Reset()
}
