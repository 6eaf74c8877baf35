package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/eventdriven/gobacktester/log"
)

//go:embed tpl.gohtml
var templates embed.FS

// GenerateReport sends final data from statistics to a template
// to create a lovely final report for someone to view
func (d *Data) GenerateReport() (string, error) {
	if d.Statistic == nil {
		return "", errNilStatistic
	}
	if d.OutputPath == "" {
		return "", errOutputPathUnset
	}
	var err error
	if len(d.Statistic.EquityCurve) > 0 {
		d.EquityChart, err = createEquityChart(d.Statistic.EquityCurve)
		if err != nil {
			return "", err
		}
	}
	d.PriceCharts = createFillCharts(d.Statistic.Fills)

	tmpl, err := template.ParseFS(templates, "tpl.gohtml")
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(d.OutputPath, 0o750); err != nil {
		return "", err
	}
	name := d.Statistic.Nickname
	if name == "" {
		name = strings.Join(d.Statistic.StrategyNames, "-")
	}
	path := filepath.Join(d.OutputPath, fmt.Sprintf("%v.html", sanitise(name)))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(log.BackTester, closeErr)
		}
	}()
	if err = tmpl.Execute(f, d); err != nil {
		return "", err
	}
	log.Infof(log.BackTester, "report written to %v", path)
	return path, nil
}

// sanitise keeps report file names portable
func sanitise(name string) string {
	if name == "" {
		return "report"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
