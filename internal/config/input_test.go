package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
)

const validYAML = `
start_date: 2025-01-01
runs: 500
batch_size: 100
workers: 2
yearly_snapshots: true
return:
  model: normal
  mean: 7
  std_dev: 15
  seed: 42
tax:
  rule: capital
  percentage: 42
  exemptions:
    - name: card
      limit: 51600
      percentage: 0
      yearly_increase_percent: 2
inflation_factor: 1.02
yearly_fee_percent: 0.5
phases:
  - type: deposit
    duration_months: 240
    initial_deposit: 10000
    monthly_deposit: 5000
    yearly_increase_percent: 2
  - type: passive
    name: bridge
    duration_months: 24
  - type: withdraw
    duration_months: 360
    monthly_amount: 20000
    lower_variation_percent: 5
    upper_variation_percent: 10
    tax_exemptions: [card]
`

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	input, err := NewInputParser().LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644))

	input, err := NewInputParser().LoadFromFile(invalidFile)

	assert.Error(t, err)
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	validFile := filepath.Join(t.TempDir(), "valid.yaml")
	require.NoError(t, os.WriteFile(validFile, []byte(validYAML), 0644))

	input, err := NewInputParser().LoadFromFile(validFile)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", input.StartDate)
	assert.Equal(t, 500, input.Runs)
	assert.Equal(t, "7", input.Return.Mean.String())
	require.NotNil(t, input.Return.Seed)
	assert.Equal(t, int64(42), *input.Return.Seed)
	assert.Equal(t, "0.5", input.YearlyFee.String())
	assert.Len(t, input.Phases, 3)
	assert.Equal(t, []string{"card"}, input.Phases[2].TaxExemptions)
}

func TestInputParser_Build(t *testing.T) {
	parser := NewInputParser()
	input, err := parser.Parse([]byte(validYAML))
	require.NoError(t, err)

	req, err := parser.Build(input)
	require.NoError(t, err)

	tmpl := req.Template
	assert.Equal(t, int64(42), tmpl.Seed)
	assert.True(t, tmpl.Options.YearlySnapshots)
	assert.False(t, tmpl.UseEventEngine)
	assert.Equal(t, 500, req.Runs)
	assert.Equal(t, 2, req.Workers)
	assert.Equal(t, 100, req.BatchSize)
	assert.NotEmpty(t, req.Fingerprint)

	assert.Equal(t, model.Normal(7, 15), tmpl.Spec.Return)
	assert.Equal(t, model.CapitalGains, tmpl.Spec.Tax.Kind)
	assert.Equal(t, 42.0, tmpl.Spec.Tax.Percentage)
	assert.InDelta(t, 1.02, tmpl.Spec.Inflation.Factor, 1e-12)
	require.NotNil(t, tmpl.Spec.Fee)
	assert.Equal(t, 0.5, tmpl.Spec.Fee.Percentage)
	require.Len(t, tmpl.Spec.Exemptions, 1)
	assert.Equal(t, 51600.0, tmpl.Spec.Exemptions[0].Limit)

	require.Len(t, tmpl.Phases, 3)
	assert.Equal(t, []string{"deposit", "bridge", "withdraw"}, phase.Names(tmpl.Phases))
	assert.Equal(t, domain.Passive, tmpl.Phases[1].Kind())

	// Phases are chained on shared boundary days.
	assert.Equal(t, "2025-01-01", tmpl.Phases[0].StartDate().String())
	assert.Equal(t, "2045-01-01", tmpl.Phases[1].StartDate().String())
	assert.Equal(t, "2047-01-01", tmpl.Phases[2].StartDate().String())
	end := tmpl.Phases[2].StartDate().PlusDays(tmpl.Phases[2].DurationDays())
	assert.Equal(t, "2077-01-01", end.String())

	w := tmpl.Phases[2].(*phase.WithdrawPhase)
	assert.Equal(t, 20000.0, w.MonthlyAmount)
	assert.Equal(t, 5.0, w.LowerVariationPercent)
	assert.False(t, w.ClampToCapital)
}

func TestInputParser_BuildDefaults(t *testing.T) {
	parser := NewInputParser()
	input, err := parser.Parse([]byte(`
start_date: 2030-06-15
runs: 1
engine: event
return:
  model: fixed
  percentage: 5
tax:
  rule: none
phases:
  - type: passive
    duration_months: 12
`))
	require.NoError(t, err)

	req, err := parser.Build(input)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), req.Template.Seed)
	assert.True(t, req.Template.UseEventEngine)
	assert.Equal(t, 1.0, req.Template.Spec.Inflation.Factor)
	assert.Nil(t, req.Template.Spec.Fee)
	assert.Equal(t, model.Monthly, req.Template.Spec.Cadence)
}

func TestFingerprint_IgnoresExecutionSettings(t *testing.T) {
	parser := NewInputParser()
	a, err := parser.Parse([]byte(validYAML))
	require.NoError(t, err)
	b, err := parser.Parse([]byte(validYAML))
	require.NoError(t, err)
	b.Workers = 16
	b.BatchSize = 7
	b.Engine = "event"

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Runs = 501
	fc, err := Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestInputParser_ValidationErrors(t *testing.T) {
	base := func() *RunInput {
		in, err := NewInputParser().Parse([]byte(validYAML))
		require.NoError(t, err)
		return in
	}

	tests := []struct {
		name   string
		mutate func(*RunInput)
		field  string
	}{
		{"bad date", func(in *RunInput) { in.StartDate = "2025-13-01" }, "start_date"},
		{"no runs", func(in *RunInput) { in.Runs = 0 }, "runs"},
		{"bad engine", func(in *RunInput) { in.Engine = "warp" }, "engine"},
		{"no phases", func(in *RunInput) { in.Phases = nil }, "phases"},
		{"unknown phase", func(in *RunInput) { in.Phases[0].Type = "borrow" }, "type"},
		{"negative duration", func(in *RunInput) { in.Phases[1].DurationMonths = -1 }, "duration_months"},
		{"too long", func(in *RunInput) { in.Phases[2].DurationMonths = 1000 }, "phases"},
		{"unknown exemption", func(in *RunInput) { in.Phases[2].TaxExemptions = []string{"nope"} }, "tax_exemptions"},
		{"withdraw without amount", func(in *RunInput) {
			in.Phases[2].MonthlyAmount = in.Phases[2].WithdrawRate
		}, "withdraw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(in)
			err := NewInputParser().ValidateInput(in)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestInputParser_SelectorErrors(t *testing.T) {
	in, err := NewInputParser().Parse([]byte(validYAML))
	require.NoError(t, err)
	in.Tax.Rule = "wealth"

	err = NewInputParser().ValidateInput(in)
	var cfgErr *model.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "tax rule", cfgErr.Field)
}

func TestOverrideReturn(t *testing.T) {
	parser := NewInputParser()
	in, err := parser.Parse([]byte(validYAML))
	require.NoError(t, err)

	m, err := model.NewReturnRegistry().ParseReturnSpec("brownian:drift=5,volatility=20")
	require.NoError(t, err)
	OverrideReturn(in, m)

	req, err := parser.Build(in)
	require.NoError(t, err)
	assert.Equal(t, model.Brownian(5, 20), req.Template.Spec.Return)
	assert.Equal(t, int64(42), req.Template.Seed)
}
