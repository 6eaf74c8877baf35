package statistics

import (
	"encoding/json"
	"fmt"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/fill"
	"github.com/eventdriven/gobacktester/backtester/eventtypes/order"
	"github.com/eventdriven/gobacktester/log"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// New returns a statistic for a run starting at initialValue
func New(nickname string, initialValue decimal.Decimal) (*Statistic, error) {
	if !initialValue.IsPositive() {
		return nil, fmt.Errorf("%w %w: %v", common.ErrInvalidConfiguration, errNonPositiveInitial, initialValue)
	}
	return &Statistic{
		Nickname:     nickname,
		InitialValue: initialValue,
		FinalValue:   initialValue,
	}, nil
}

// Reset clears everything recorded during a run
func (s *Statistic) Reset() {
	*s = Statistic{
		Nickname:      s.Nickname,
		StrategyNames: s.StrategyNames,
		InitialValue:  s.InitialValue,
		FinalValue:    s.InitialValue,
	}
}

// SetStrategyNames sets the names of the strategies used in the run
func (s *Statistic) SetStrategyNames(names []string) {
	s.StrategyNames = names
}

// AddEvent counts a dispatched event and records signals, orders and fills
// for auditing
func (s *Statistic) AddEvent(e common.Event) error {
	if e == nil {
		return common.ErrNilEvent
	}
	switch e.GetType() {
	case common.MarketEvent:
		s.MarketEvents++
		return nil
	case common.SignalEvent:
		s.SignalEvents++
	case common.OrderEvent:
		s.OrderEvents++
	case common.FillEvent:
		s.FillEvents++
		f, ok := e.(*fill.Fill)
		if !ok {
			return fmt.Errorf("%w expected fill event, received %T", errUnknownEventType, e)
		}
		s.addFill(f)
	default:
		return fmt.Errorf("%w %v", errUnknownEventType, e.GetType())
	}
	s.Events = append(s.Events, EventRecord{
		Offset:      e.GetOffset(),
		Type:        e.GetType().String(),
		Timestamp:   e.GetTimestamp(),
		Symbol:      e.GetSymbol(),
		Description: e.String(),
	})
	return nil
}

func (s *Statistic) addFill(f *fill.Fill) {
	switch f.Direction {
	case common.Buy:
		s.BuyFills++
	case common.Sell:
		s.SellFills++
	}
	s.TotalCommission = s.TotalCommission.Add(f.Commission)
	s.TotalSlippage = s.TotalSlippage.Add(f.Slippage.Mul(decimal.NewFromInt(f.Quantity)))
	s.Fills = append(s.Fills, FillRecord{
		Offset:     f.Offset,
		Timestamp:  f.Timestamp,
		OrderID:    f.OrderID,
		Symbol:     f.Symbol,
		Direction:  string(f.Direction),
		OrderType:  string(f.OrderType),
		Quantity:   f.Quantity,
		Price:      f.FillPrice,
		Commission: f.Commission,
		Final:      f.Final,
	})
}

// AddRejection records a signal the portfolio refused
func (s *Statistic) AddRejection(r portfolio.Rejection) {
	s.RejectedSignals++
	s.Rejections = append(s.Rejections, r)
}

// AddExpiredOrder records an order which never triggered
func (s *Statistic) AddExpiredOrder(o *order.Order) {
	if o == nil {
		return
	}
	s.ExpiredOrders++
	s.Expired = append(s.Expired, o.ID)
}

// AddEquity appends a point to the equity curve
func (s *Statistic) AddEquity(offset, timestamp int64, value decimal.Decimal) {
	s.EquityCurve = append(s.EquityCurve, ValueAtTime{
		Offset:    offset,
		Timestamp: timestamp,
		Value:     value,
	})
}

// CalculateResults finalises the run with the final total value
func (s *Statistic) CalculateResults(finalValue decimal.Decimal) error {
	if s.calculated {
		return errAlreadyCalculated
	}
	s.FinalValue = finalValue
	if !s.InitialValue.IsZero() {
		s.StrategyReturn = finalValue.Sub(s.InitialValue).Div(s.InitialValue).Mul(oneHundred)
	}
	if len(s.EquityCurve) > 0 {
		swing, err := CalculateBiggestValueAtTimeDrawdown(s.EquityCurve)
		if err != nil {
			return err
		}
		s.MaxDrawdown = swing
	}
	s.calculated = true
	return nil
}

// CalculateBiggestValueAtTimeDrawdown returns the largest peak to trough
// decline of the values in order
func CalculateBiggestValueAtTimeDrawdown(values []ValueAtTime) (Swing, error) {
	if len(values) == 0 {
		return Swing{}, errReceivedNoData
	}
	var biggest Swing
	peak := values[0]
	for i := range values {
		if values[i].Value.GreaterThan(peak.Value) {
			peak = values[i]
			continue
		}
		if !peak.Value.IsPositive() {
			continue
		}
		drawdown := peak.Value.Sub(values[i].Value).Div(peak.Value).Mul(oneHundred)
		if drawdown.GreaterThan(biggest.DrawdownPercent) {
			biggest = Swing{
				Highest:         peak,
				Lowest:          values[i],
				DrawdownPercent: drawdown,
			}
		}
	}
	return biggest, nil
}

// PrintResult outputs a summary of the run to the statistics logger
func (s *Statistic) PrintResult() {
	log.Info(log.Statistics, "------------------Strategy-----------------------------------")
	if s.Nickname != "" {
		log.Infof(log.Statistics, "Nickname: %v", s.Nickname)
	}
	log.Infof(log.Statistics, "Strategies: %v", s.StrategyNames)
	log.Info(log.Statistics, "------------------Events-------------------------------------")
	log.Infof(log.Statistics, "Market events: %v", s.MarketEvents)
	log.Infof(log.Statistics, "Signal events: %v", s.SignalEvents)
	log.Infof(log.Statistics, "Order events: %v", s.OrderEvents)
	log.Infof(log.Statistics, "Fill events: %v (buy %v, sell %v)", s.FillEvents, s.BuyFills, s.SellFills)
	log.Infof(log.Statistics, "Rejected signals: %v", s.RejectedSignals)
	log.Infof(log.Statistics, "Expired orders: %v", s.ExpiredOrders)
	log.Info(log.Statistics, "------------------Results------------------------------------")
	log.Infof(log.Statistics, "Initial value: %v", s.InitialValue.StringFixed(2))
	log.Infof(log.Statistics, "Final value: %v", s.FinalValue.StringFixed(2))
	log.Infof(log.Statistics, "Strategy return: %v%%", s.StrategyReturn.StringFixed(4))
	log.Infof(log.Statistics, "Total commission: %v", s.TotalCommission.StringFixed(2))
	log.Infof(log.Statistics, "Total slippage: %v", s.TotalSlippage.StringFixed(2))
	if s.MaxDrawdown.DrawdownPercent.IsPositive() {
		log.Infof(log.Statistics, "Max drawdown: %v%% from %v at %v to %v at %v",
			s.MaxDrawdown.DrawdownPercent.StringFixed(4),
			s.MaxDrawdown.Highest.Value.StringFixed(2),
			s.MaxDrawdown.Highest.Timestamp,
			s.MaxDrawdown.Lowest.Value.StringFixed(2),
			s.MaxDrawdown.Lowest.Timestamp)
	}
}

// Serialise outputs the Statistic struct in json
func (s *Statistic) Serialise() (string, error) {
	resp, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}
