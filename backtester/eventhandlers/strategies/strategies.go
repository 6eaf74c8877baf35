package strategies

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/base"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/rsi"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies/sma"
)

// smaPrefix allows the SMA_<window> naming to select a window directly
const smaPrefix = "sma_"

// LoadStrategyByName returns the strategy by its name and applies any custom settings
func LoadStrategyByName(name string, customSettings map[string]any) (Handler, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	var window int
	if strings.HasPrefix(lower, smaPrefix) {
		w, err := strconv.Atoi(strings.TrimPrefix(lower, smaPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w strategy '%v' %w", common.ErrInvalidConfiguration, name, base.ErrStrategyNotFound)
		}
		window = w
		lower = sma.Name
	}
	for _, s := range GetStrategies() {
		if !strings.EqualFold(registryName(s), lower) {
			continue
		}
		if window != 0 {
			var err error
			if s, err = sma.New(window); err != nil {
				return nil, err
			}
		}
		if len(customSettings) == 0 {
			return s, nil
		}
		setter, ok := s.(CustomSettingsSetter)
		if !ok {
			return nil, fmt.Errorf("%w strategy '%v' %w", common.ErrInvalidConfiguration, name, base.ErrCustomSettingsUnsupported)
		}
		if err := setter.SetCustomSettings(customSettings); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w strategy '%v' %w", common.ErrInvalidConfiguration, name, base.ErrStrategyNotFound)
}

// registryName is the config name of a builtin strategy
func registryName(h Handler) string {
	if _, ok := h.(*sma.Strategy); ok {
		return sma.Name
	}
	return h.Name()
}

// GetStrategies returns a new instance of every builtin strategy with default settings
func GetStrategies() []Handler {
	return []Handler{
		sma.NewDefault(),
		rsi.New(),
	}
}
