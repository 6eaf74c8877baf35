package report

import (
	"errors"

	"github.com/eventdriven/gobacktester/backtester/eventhandlers/portfolio/holdings"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/statistics"
)

const (
	chartWidth  = 900
	chartHeight = 300
	// chartPadding keeps plotted lines away from the svg edge
	chartPadding = 10
)

var (
	errNilStatistic    = errors.New("nil statistic received")
	errNoValues        = errors.New("no values to chart")
	errOutputPathUnset = errors.New("report output path unset")
)

// Data holds everything required to render a report of a run
type Data struct {
	Statistic   *statistics.Statistic
	Positions   []holdings.Position
	OutputPath  string
	EquityChart *Chart
	PriceCharts []*Chart
}

// Chart is a line chart already scaled to svg coordinates
type Chart struct {
	Name   string
	Width  int
	Height int
	Min    float64
	Max    float64
	Lines  []ChartLine
	// Markers highlight fills on price charts
	Markers []Marker
}

// ChartLine is a named series of plots
type ChartLine struct {
	Name   string
	Points string
	Plots  []LinePlot
}

// LinePlot is a single value on a chart
type LinePlot struct {
	Timestamp int64
	Value     float64
	X         float64
	Y         float64
}

// Marker annotates a fill on a price chart
type Marker struct {
	X      float64
	Y      float64
	Colour string
	Text   string
}
