package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
)

// createEquityChart shows the total value of the portfolio after every tick
func createEquityChart(items []statistics.ValueAtTime) (*Chart, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w equity curve", errNoValues)
	}
	plots := make([]LinePlot, len(items))
	for i := range items {
		plots[i] = LinePlot{
			Timestamp: items[i].Timestamp,
			Value:     items[i].Value.InexactFloat64(),
		}
	}
	response := &Chart{
		Name:  "Total value",
		Lines: []ChartLine{{Name: "Total value", Plots: plots}},
	}
	response.scale()
	return response, nil
}

// createFillCharts plots the execution price of every fill per symbol and
// marks whether it bought or sold
func createFillCharts(fills []statistics.FillRecord) []*Chart {
	bySymbol := make(map[string][]statistics.FillRecord)
	for i := range fills {
		bySymbol[fills[i].Symbol] = append(bySymbol[fills[i].Symbol], fills[i])
	}
	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	response := make([]*Chart, 0, len(symbols))
	for _, sym := range symbols {
		symFills := bySymbol[sym]
		plots := make([]LinePlot, len(symFills))
		for i := range symFills {
			plots[i] = LinePlot{
				Timestamp: symFills[i].Timestamp,
				Value:     symFills[i].Price.InexactFloat64(),
			}
		}
		c := &Chart{
			Name:  sym + " fills",
			Lines: []ChartLine{{Name: sym + " fill price", Plots: plots}},
		}
		c.scale()
		for i := range symFills {
			colour := "green"
			if symFills[i].Direction == string(common.Sell) {
				colour = "red"
			}
			c.Markers = append(c.Markers, Marker{
				X:      c.Lines[0].Plots[i].X,
				Y:      c.Lines[0].Plots[i].Y,
				Colour: colour,
				Text:   fmt.Sprintf("%v %v @ %v", symFills[i].Direction, symFills[i].Quantity, symFills[i].Price),
			})
		}
		response = append(response, c)
	}
	return response
}

// scale converts plot values into svg coordinates, with the first plot on
// the left and the highest value at the top
func (c *Chart) scale() {
	c.Width = chartWidth
	c.Height = chartHeight
	first := true
	longest := 0
	for i := range c.Lines {
		longest = max(longest, len(c.Lines[i].Plots))
		for j := range c.Lines[i].Plots {
			v := c.Lines[i].Plots[j].Value
			if first {
				c.Min, c.Max = v, v
				first = false
				continue
			}
			c.Min = min(c.Min, v)
			c.Max = max(c.Max, v)
		}
	}
	valueRange := c.Max - c.Min
	usableWidth := float64(c.Width - 2*chartPadding)
	usableHeight := float64(c.Height - 2*chartPadding)
	for i := range c.Lines {
		points := make([]string, len(c.Lines[i].Plots))
		for j := range c.Lines[i].Plots {
			p := &c.Lines[i].Plots[j]
			p.X = chartPadding
			if longest > 1 {
				p.X += usableWidth * float64(j) / float64(longest-1)
			}
			p.Y = chartPadding + usableHeight/2
			if valueRange > 0 {
				p.Y = chartPadding + usableHeight*(c.Max-p.Value)/valueRange
			}
			points[j] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
		}
		c.Lines[i].Points = strings.Join(points, " ")
	}
}
