package output

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

const tableWidth = 110

// TableFormatter formats results as a console table
type TableFormatter struct {
	// Phase restricts the table to one phase when set.
	Phase string
}

// Format generates a formatted table of yearly summaries
func (tf *TableFormatter) Format(res *simulation.Result) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString(TitleStyle.Render("MONTE CARLO PROJECTION"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")
	sb.WriteString(MetricLabelStyle.Render(fmt.Sprintf("Simulation: %s  Seed: %d  Runs: %d  Elapsed: %s",
		res.ID, res.Seed, len(res.Runs), res.Elapsed.Round(time.Millisecond))))
	sb.WriteString("\n")
	if res.Cached {
		sb.WriteString(MetricLabelStyle.Render("(cached result)"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// Column widths
	yearWidth := 6
	nameWidth := 14
	numWidth := 11

	header := fmt.Sprintf("%-*s %-*s %*s %*s %*s %*s %*s %*s %*s %*s",
		yearWidth, "Year",
		nameWidth, "Phase",
		numWidth, "Median",
		numWidth, "Average",
		numWidth, "P5",
		numWidth, "P95",
		numWidth, "VaR",
		numWidth, "CVaR",
		numWidth, "Growth",
		numWidth, "Negative")
	sb.WriteString(TableHeaderStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	for _, s := range res.Summaries {
		if tf.Phase != "" && s.PhaseName != tf.Phase {
			continue
		}
		sb.WriteString(tf.formatRow(s, yearWidth, nameWidth, numWidth))
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", tableWidth) + "\n")

	rate := FormatPercentage(res.SuccessRate)
	style := MetricPositiveStyle
	if res.SuccessRate < 90 {
		style = MetricNegativeStyle
	}
	sb.WriteString(MetricLabelStyle.Render("Success rate: "))
	sb.WriteString(style.Render(rate))
	sb.WriteString("\n")

	return sb.String(), nil
}

// formatRow formats a single summary row
func (tf *TableFormatter) formatRow(s domain.YearlySummary, yearWidth, nameWidth, numWidth int) string {
	row := fmt.Sprintf("%-*d %-*s %*s %*s %*s %*s %*s %*s %*s %*s",
		yearWidth, s.Year,
		nameWidth, tf.truncate(s.PhaseName, nameWidth),
		numWidth, formatAmount(s.MedianCapital),
		numWidth, formatAmount(s.AverageCapital),
		numWidth, formatAmount(s.Quantile5),
		numWidth, formatAmount(s.Quantile95),
		numWidth, formatAmount(s.VaR),
		numWidth, formatAmount(s.CVaR),
		numWidth, fixed(s.CumulativeGrowthRate, 1)+"%",
		numWidth, fixed(s.NegativeCapitalPercentage, 1)+"%")
	if s.NegativeCapitalPercentage > 0 {
		return MetricNegativeStyle.Render(row)
	}
	return TableCellStyle.Render(row)
}

// formatAmount formats an amount for display (in thousands or millions)
func formatAmount(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprintf("%v", x)
	}
	d := decimal.NewFromFloat(x)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
