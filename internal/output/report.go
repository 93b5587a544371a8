// Package output renders simulation results for the console and for files.
package output

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

// ErrUnsupportedFormat is returned for an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formatter renders a simulation result.
type Formatter interface {
	Format(res *simulation.Result) (string, error)
}

// Report is the serialisable view of a result. Individual runs are only
// included on request.
type Report struct {
	ID          string                 `json:"id" yaml:"id"`
	Seed        int64                  `json:"seed" yaml:"seed"`
	Runs        int                    `json:"runs" yaml:"runs"`
	SuccessRate float64                `json:"successRate" yaml:"success_rate"`
	Elapsed     string                 `json:"elapsed" yaml:"elapsed"`
	Cached      bool                   `json:"cached" yaml:"cached"`
	Summaries   []domain.YearlySummary `json:"summaries" yaml:"summaries"`
	RunResults  []domain.RunResult     `json:"runResults,omitempty" yaml:"-"`
}

// NewReport builds a report from res.
func NewReport(res *simulation.Result, includeRuns bool) Report {
	r := Report{
		ID:          res.ID.String(),
		Seed:        res.Seed,
		Runs:        len(res.Runs),
		SuccessRate: res.SuccessRate,
		Elapsed:     res.Elapsed.String(),
		Cached:      res.Cached,
		Summaries:   res.Summaries,
	}
	if includeRuns {
		r.RunResults = res.Runs
	}
	return r
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table", "console":
		return &TableFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "yaml", "yml":
		return &YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"table", "csv", "json", "yaml"}
}

// WriteFile renders res with f and writes it to filename.
func WriteFile(f Formatter, res *simulation.Result, filename string) error {
	out, err := f.Format(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// FormatCurrency formats an amount with two decimals.
func FormatCurrency(amount float64) string {
	return "$" + fixed(amount, 2)
}

// FormatPercentage formats a percentage with two decimals.
func FormatPercentage(pct float64) string {
	return fixed(pct, 2) + "%"
}

// fixed renders x with the given number of decimals. Non-finite values are
// not representable as decimals and are printed as is.
func fixed(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprintf("%v", x)
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}
