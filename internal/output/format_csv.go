package output

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

// CSVFormatter writes one row per yearly summary.
type CSVFormatter struct{}

var summaryHeader = []string{
	"Year",
	"Phase",
	"Average",
	"Median",
	"Min",
	"Max",
	"StdDev",
	"Growth %",
	"P5",
	"P25",
	"P75",
	"P95",
	"VaR",
	"CVaR",
	"Negative %",
	"Observations",
}

// Format generates CSV output for the summaries of res.
func (cf *CSVFormatter) Format(res *simulation.Result) (string, error) {
	return FormatSummariesCSV(res.Summaries)
}

// FormatSummariesCSV renders summaries as CSV.
func FormatSummariesCSV(summaries []domain.YearlySummary) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(summaryHeader); err != nil {
		return "", err
	}

	for _, s := range summaries {
		row := []string{
			strconv.Itoa(s.Year),
			s.PhaseName,
			fixed(s.AverageCapital, 2),
			fixed(s.MedianCapital, 2),
			fixed(s.MinCapital, 2),
			fixed(s.MaxCapital, 2),
			fixed(s.StdDevCapital, 2),
			fixed(s.CumulativeGrowthRate, 2),
			fixed(s.Quantile5, 2),
			fixed(s.Quantile25, 2),
			fixed(s.Quantile75, 2),
			fixed(s.Quantile95, 2),
			fixed(s.VaR, 2),
			fixed(s.CVaR, 2),
			fixed(s.NegativeCapitalPercentage, 2),
			strconv.Itoa(s.Observations),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FormatSnapshotsCSV renders every snapshot of every run, one row each.
func FormatSnapshotsCSV(runs []domain.RunResult) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{
		"Run", "Date", "Phase", "Kind", "Event",
		"Capital", "Deposited", "Withdrawn", "Returned", "Taxed", "Fees", "Inflation", "NetEarnings",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, run := range runs {
		for _, snap := range run.Snapshots {
			st := snap.State
			row := []string{
				strconv.Itoa(run.Index),
				st.Date().String(),
				snap.PhaseName,
				snap.PhaseKind.String(),
				snap.Event,
				fixed(st.Capital, 2),
				fixed(st.Deposited, 2),
				fixed(st.Withdrawn, 2),
				fixed(st.Returned, 2),
				fixed(st.Taxed, 2),
				fixed(st.Fees, 2),
				fixed(st.Inflation, 4),
				fixed(st.NetEarnings, 2),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
