package web

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/shopspring/decimal"

	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/internal/usecase/forecast"
)

const (
	colorProperty  = "#3b82f6"
	colorPortfolio = "#34d399"
	colorSuper     = "#fbbf24"
	colorTotal     = "#f472b6"

	chartWidth  = "1100px"
	chartHeight = "480px"
)

func initOpts() opts.Initialization {
	return opts.Initialization{Width: chartWidth, Height: chartHeight}
}

// summarySubtitle is shown under every overview chart title
func summarySubtitle(o *dashboard.Overview) string {
	parts := []string{
		fmt.Sprintf("Net worth %s", FormatMoney(o.NetWorth.Total, o.HomeCurrency)),
		fmt.Sprintf("Goal %s (%s)", FormatMoney(o.Goal, o.HomeCurrency), FormatPercent(o.GoalProgress)),
		fmt.Sprintf("Cash %s", FormatMoney(o.NetWorth.Cash, o.HomeCurrency)),
		fmt.Sprintf("Property equity %s (%s%% of value, your share %s)",
			FormatMoney(o.NetWorth.Equity, o.HomeCurrency),
			o.NetWorth.EquityPercent.StringFixed(1),
			FormatMoney(o.NetWorth.UserEquity, o.HomeCurrency)),
		fmt.Sprintf("Super %s", FormatMoney(o.NetWorth.SuperBalance, o.HomeCurrency)),
	}
	parts = append(parts, fxSummary(o))
	for _, w := range o.Warnings {
		parts = append(parts, "Warning: "+w)
	}
	return strings.Join(parts, "  |  ")
}

func fxSummary(o *dashboard.Overview) string {
	if !o.FXRate.Available {
		return "FX unavailable"
	}
	if o.ForeignCurrency == "" {
		return fmt.Sprintf("FX %s", o.FXRate.Value.StringFixed(4))
	}
	return fmt.Sprintf("FX 1 %s = %s %s", o.ForeignCurrency, o.FXRate.Value.StringFixed(4), o.HomeCurrency)
}

// holdingsChart is the value-by-holding bar chart
func holdingsChart(o *dashboard.Overview) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Portfolio %s", FormatMoney(o.Valuation.Total, o.HomeCurrency)),
			Subtitle: summarySubtitle(o),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{Top: "90"}),
	)

	xAxis := make([]string, 0, len(o.Valuation.Assets))
	data := make([]opts.BarData, 0, len(o.Valuation.Assets))
	for _, a := range o.Valuation.Assets {
		label := a.Symbol
		if !a.Available {
			label += " (n/a)"
		}
		xAxis = append(xAxis, label)
		data = append(data, opts.BarData{
			Name:  a.Name,
			Value: a.ValueHome.Round(2).InexactFloat64(),
		})
	}

	bar.SetXAxis(xAxis)
	bar.AddSeries("Value", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPortfolio}))
	return bar
}

// forecastChart is the projected value per track and in total
func forecastChart(o *dashboard.Overview) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Forecast over %d years", o.Assumptions.Clamp().HorizonYears),
			Subtitle: fmt.Sprintf("Growth: property %s, portfolio %s, super %s  |  Contributions %s",
				FormatPercent(o.Assumptions.Property.AnnualGrowthRate),
				FormatPercent(o.Assumptions.Portfolio.AnnualGrowthRate),
				FormatPercent(o.Assumptions.Super.AnnualGrowthRate),
				strings.ToLower(string(o.Assumptions.Clamp().ContributionFrequency))),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithGridOpts(opts.Grid{Top: "90"}),
	)

	xAxis := make([]string, 0, len(o.Forecast))
	for _, p := range o.Forecast {
		xAxis = append(xAxis, fmt.Sprintf("Year %d", p.Year))
	}
	line.SetXAxis(xAxis)

	series := []struct {
		name  string
		color string
		value func(forecast.Point) decimal.Decimal
	}{
		{"Property equity", colorProperty, func(p forecast.Point) decimal.Decimal { return p.PropertyEquity }},
		{"Portfolio", colorPortfolio, func(p forecast.Point) decimal.Decimal { return p.PortfolioValue }},
		{"Super", colorSuper, func(p forecast.Point) decimal.Decimal { return p.SuperValue }},
		{"Total", colorTotal, func(p forecast.Point) decimal.Decimal { return p.Total }},
	}
	for _, s := range series {
		data := make([]opts.LineData, 0, len(o.Forecast))
		for _, p := range o.Forecast {
			data = append(data, opts.LineData{Value: s.value(p).Round(2).InexactFloat64()})
		}
		line.AddSeries(s.name, data, charts.WithLineStyleOpts(opts.LineStyle{Color: s.color, Width: 2}))
	}
	return line
}

// historyChart is the resampled net-worth series
func historyChart(points []domain.ResamplePoint, periodDays int) *charts.Line {
	line := charts.NewLine()
	title := "Net worth history"
	subtitle := fmt.Sprintf("Last value per %d-day period", periodDays)
	if len(points) == 0 {
		subtitle = "No snapshots recorded yet"
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts()),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)

	xAxis := make([]string, 0, len(points))
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		xAxis = append(xAxis, p.PeriodEnd.Format(domain.DateLayout))
		data = append(data, opts.LineData{Value: p.Value.Round(2).InexactFloat64()})
	}
	line.SetXAxis(xAxis)
	line.AddSeries("Net worth", data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorTotal, Width: 2}))
	return line
}

// renderPage writes the charts as one HTML page
func renderPage(w io.Writer, chartList ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(chartList...)
	return page.Render(w)
}
