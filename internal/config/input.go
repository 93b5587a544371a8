package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/calendar"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/engine"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/montecarlo"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

// MaxTotalMonths bounds the combined duration of all phases.
const MaxTotalMonths = 1200

// RunInput is the YAML description of a simulation run.
type RunInput struct {
	StartDate       string           `yaml:"start_date"`
	Runs            int              `yaml:"runs"`
	BatchSize       int              `yaml:"batch_size,omitempty"`
	Workers         int              `yaml:"workers,omitempty"`
	ProgressStep    int              `yaml:"progress_step,omitempty"`
	YearlySnapshots bool             `yaml:"yearly_snapshots,omitempty"`
	Engine          string           `yaml:"engine,omitempty"`
	Return          ReturnInput      `yaml:"return"`
	Tax             TaxInput         `yaml:"tax"`
	InflationFactor *decimal.Decimal `yaml:"inflation_factor,omitempty"`
	YearlyFee       *decimal.Decimal `yaml:"yearly_fee_percent,omitempty"`
	Phases          []PhaseInput     `yaml:"phases"`
}

// ReturnInput selects and parameterises the return model.
type ReturnInput struct {
	Model      string          `yaml:"model"`
	Percentage decimal.Decimal `yaml:"percentage,omitempty"`
	Mean       decimal.Decimal `yaml:"mean,omitempty"`
	StdDev     decimal.Decimal `yaml:"std_dev,omitempty"`
	Drift      decimal.Decimal `yaml:"drift,omitempty"`
	Volatility decimal.Decimal `yaml:"volatility,omitempty"`
	Seed       *int64          `yaml:"seed,omitempty"`
	Cadence    string          `yaml:"cadence,omitempty"`
	Calendar   string          `yaml:"calendar,omitempty"`
}

// TaxInput selects the tax rule and its exemptions.
type TaxInput struct {
	Rule       string           `yaml:"rule"`
	Percentage decimal.Decimal  `yaml:"percentage,omitempty"`
	Exemptions []ExemptionInput `yaml:"exemptions,omitempty"`
}

// ExemptionInput is a yearly tax allowance.
type ExemptionInput struct {
	Name                  string          `yaml:"name"`
	Limit                 decimal.Decimal `yaml:"limit"`
	Percentage            decimal.Decimal `yaml:"percentage,omitempty"`
	YearlyIncreasePercent decimal.Decimal `yaml:"yearly_increase_percent,omitempty"`
}

// PhaseInput describes one phase. Fields not used by Type are ignored.
type PhaseInput struct {
	Type           string `yaml:"type"`
	Name           string `yaml:"name,omitempty"`
	DurationMonths int    `yaml:"duration_months"`

	InitialDeposit        decimal.Decimal `yaml:"initial_deposit,omitempty"`
	MonthlyDeposit        decimal.Decimal `yaml:"monthly_deposit,omitempty"`
	YearlyIncreasePercent decimal.Decimal `yaml:"yearly_increase_percent,omitempty"`

	MonthlyAmount         decimal.Decimal `yaml:"monthly_amount,omitempty"`
	WithdrawRate          decimal.Decimal `yaml:"withdraw_rate,omitempty"`
	LowerVariationPercent decimal.Decimal `yaml:"lower_variation_percent,omitempty"`
	UpperVariationPercent decimal.Decimal `yaml:"upper_variation_percent,omitempty"`
	TaxExemptions         []string        `yaml:"tax_exemptions,omitempty"`
	ClampToCapital        bool            `yaml:"clamp_to_capital,omitempty"`
}

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InputParser handles parsing of run input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a run input from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*RunInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a run input.
func (ip *InputParser) Parse(data []byte) (*RunInput, error) {
	var input RunInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInput(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	return &input, nil
}

// ValidateInput checks everything that can be checked without building the
// core types.
func (ip *InputParser) ValidateInput(in *RunInput) error {
	if _, err := calendar.Parse(in.StartDate); err != nil {
		return invalid("start_date", "%v", err)
	}
	if in.Runs <= 0 {
		return invalid("runs", "must be positive")
	}
	if in.BatchSize < 0 || in.Workers < 0 || in.ProgressStep < 0 {
		return invalid("batch_size", "batch_size, workers and progress_step cannot be negative")
	}
	switch strings.ToLower(in.Engine) {
	case "", "schedule", "event":
	default:
		return invalid("engine", "must be 'schedule' or 'event', got %q", in.Engine)
	}

	if err := ip.validateReturn(&in.Return); err != nil {
		return fmt.Errorf("return validation failed: %w", err)
	}
	if err := ip.validateTax(&in.Tax); err != nil {
		return fmt.Errorf("tax validation failed: %w", err)
	}
	if in.InflationFactor != nil && !in.InflationFactor.IsPositive() {
		return invalid("inflation_factor", "must be positive")
	}
	if in.YearlyFee != nil && (in.YearlyFee.IsNegative() || in.YearlyFee.GreaterThan(decimal.NewFromInt(100))) {
		return invalid("yearly_fee_percent", "must be between 0 and 100")
	}

	if len(in.Phases) == 0 {
		return invalid("phases", "at least one phase is required")
	}
	exemptions := make(map[string]bool, len(in.Tax.Exemptions))
	for _, ex := range in.Tax.Exemptions {
		exemptions[ex.Name] = true
	}
	total := 0
	for i := range in.Phases {
		if err := ip.validatePhase(&in.Phases[i], exemptions); err != nil {
			return fmt.Errorf("phase %d validation failed: %w", i, err)
		}
		total += in.Phases[i].DurationMonths
	}
	if total > MaxTotalMonths {
		return invalid("phases", "total duration of %d months exceeds %d", total, MaxTotalMonths)
	}
	return nil
}

func (ip *InputParser) validateReturn(r *ReturnInput) error {
	if _, err := model.ParseReturnModelKind(r.Model); err != nil {
		return err
	}
	if _, err := model.ParseCadence(r.Cadence); err != nil {
		return err
	}
	if _, err := model.ParseTradingCalendar(r.Calendar); err != nil {
		return err
	}
	if r.StdDev.IsNegative() {
		return invalid("std_dev", "cannot be negative")
	}
	if r.Volatility.IsNegative() {
		return invalid("volatility", "cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateTax(t *TaxInput) error {
	if _, err := model.ParseTaxRuleKind(t.Rule); err != nil {
		return err
	}
	hundred := decimal.NewFromInt(100)
	if t.Percentage.IsNegative() || t.Percentage.GreaterThan(hundred) {
		return invalid("percentage", "must be between 0 and 100")
	}
	seen := make(map[string]bool, len(t.Exemptions))
	for _, ex := range t.Exemptions {
		if ex.Name == "" {
			return invalid("exemptions", "name is required")
		}
		if seen[ex.Name] {
			return invalid("exemptions", "duplicate exemption %q", ex.Name)
		}
		seen[ex.Name] = true
		if ex.Limit.IsNegative() {
			return invalid("exemptions", "%s: limit cannot be negative", ex.Name)
		}
		if ex.Percentage.IsNegative() || ex.Percentage.GreaterThan(hundred) {
			return invalid("exemptions", "%s: percentage must be between 0 and 100", ex.Name)
		}
	}
	return nil
}

func (ip *InputParser) validatePhase(p *PhaseInput, exemptions map[string]bool) error {
	kind, err := domain.ParsePhaseKind(p.Type)
	if err != nil {
		return invalid("type", "%v", err)
	}
	if p.DurationMonths < 0 {
		return invalid("duration_months", "cannot be negative")
	}

	switch kind {
	case domain.Deposit:
		if p.InitialDeposit.IsNegative() || p.MonthlyDeposit.IsNegative() {
			return invalid("deposit", "amounts cannot be negative")
		}
	case domain.Withdraw:
		if p.MonthlyAmount.IsNegative() || p.WithdrawRate.IsNegative() {
			return invalid("withdraw", "amount and rate cannot be negative")
		}
		if p.MonthlyAmount.IsZero() && p.WithdrawRate.IsZero() {
			return invalid("withdraw", "either monthly_amount or withdraw_rate is required")
		}
		if p.LowerVariationPercent.IsNegative() || p.UpperVariationPercent.IsNegative() {
			return invalid("withdraw", "variation percentages cannot be negative")
		}
		if p.LowerVariationPercent.GreaterThan(decimal.NewFromInt(100)) {
			return invalid("withdraw", "lower_variation_percent cannot exceed 100")
		}
		for _, name := range p.TaxExemptions {
			if !exemptions[name] {
				return invalid("tax_exemptions", "unknown exemption %q", name)
			}
		}
	}
	return nil
}

// Build converts a validated input into a simulation request.
func (ip *InputParser) Build(in *RunInput) (*simulation.Request, error) {
	start, err := calendar.Parse(in.StartDate)
	if err != nil {
		return nil, invalid("start_date", "%v", err)
	}

	spec, err := buildSpecification(in)
	if err != nil {
		return nil, err
	}

	phases := make([]phase.Phase, 0, len(in.Phases))
	cursor := start
	for i, p := range in.Phases {
		kind, err := domain.ParsePhaseKind(p.Type)
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		end := cursor.PlusMonths(p.DurationMonths)
		built, err := phase.New(kind, phase.Config{
			Name:                  p.Name,
			Start:                 cursor,
			DurationDays:          cursor.DaysUntil(end),
			InitialDeposit:        p.InitialDeposit.InexactFloat64(),
			MonthlyDeposit:        p.MonthlyDeposit.InexactFloat64(),
			YearlyIncreasePercent: p.YearlyIncreasePercent.InexactFloat64(),
			MonthlyAmount:         p.MonthlyAmount.InexactFloat64(),
			WithdrawRatePercent:   p.WithdrawRate.InexactFloat64(),
			LowerVariationPercent: p.LowerVariationPercent.InexactFloat64(),
			UpperVariationPercent: p.UpperVariationPercent.InexactFloat64(),
			Exemptions:            p.TaxExemptions,
			ClampToCapital:        p.ClampToCapital,
		})
		if err != nil {
			return nil, fmt.Errorf("phase %d: %w", i, err)
		}
		phases = append(phases, built)
		cursor = end
	}

	seed := int64(-1)
	if in.Return.Seed != nil {
		seed = *in.Return.Seed
	}

	fingerprint, err := Fingerprint(in)
	if err != nil {
		return nil, err
	}

	return &simulation.Request{
		Template: montecarlo.Template{
			Spec:           spec,
			Phases:         phases,
			Seed:           seed,
			Options:        engine.Options{YearlySnapshots: in.YearlySnapshots},
			UseEventEngine: strings.EqualFold(in.Engine, "event"),
		},
		Runs:         in.Runs,
		Workers:      in.Workers,
		BatchSize:    in.BatchSize,
		ProgressStep: in.ProgressStep,
		Fingerprint:  fingerprint,
	}, nil
}

func buildSpecification(in *RunInput) (*model.Specification, error) {
	kind, err := model.ParseReturnModelKind(in.Return.Model)
	if err != nil {
		return nil, err
	}
	var ret model.ReturnModel
	switch kind {
	case model.FixedReturn:
		ret = model.Fixed(in.Return.Percentage.InexactFloat64())
	case model.NormalReturn:
		ret = model.Normal(in.Return.Mean.InexactFloat64(), in.Return.StdDev.InexactFloat64())
	case model.BrownianReturn:
		ret = model.Brownian(in.Return.Drift.InexactFloat64(), in.Return.Volatility.InexactFloat64())
	}

	cadence, err := model.ParseCadence(in.Return.Cadence)
	if err != nil {
		return nil, err
	}
	cal, err := model.ParseTradingCalendar(in.Return.Calendar)
	if err != nil {
		return nil, err
	}
	taxKind, err := model.ParseTaxRuleKind(in.Tax.Rule)
	if err != nil {
		return nil, err
	}

	spec := &model.Specification{
		Return:    ret,
		Tax:       model.TaxRule{Kind: taxKind, Percentage: in.Tax.Percentage.InexactFloat64()},
		Inflation: model.NoInflation(),
		Cadence:   cadence,
		Calendar:  cal,
	}
	if in.InflationFactor != nil {
		spec.Inflation = model.InflationModel{Factor: in.InflationFactor.InexactFloat64()}
	}
	if in.YearlyFee != nil {
		spec.Fee = &model.YearlyFee{Percentage: in.YearlyFee.InexactFloat64()}
	}
	for _, ex := range in.Tax.Exemptions {
		spec.Exemptions = append(spec.Exemptions, model.TaxExemption{
			Name:                  ex.Name,
			Limit:                 ex.Limit.InexactFloat64(),
			Percentage:            ex.Percentage.InexactFloat64(),
			YearlyIncreasePercent: ex.YearlyIncreasePercent.InexactFloat64(),
		})
	}
	return spec, nil
}

// Fingerprint hashes the canonical YAML form of the input. Execution
// settings that do not change results are left out, so inputs that describe
// the same run share a fingerprint.
func Fingerprint(in *RunInput) (string, error) {
	canonical := *in
	canonical.Workers = 0
	canonical.BatchSize = 0
	canonical.ProgressStep = 0
	canonical.Engine = ""
	data, err := yaml.Marshal(&canonical)
	if err != nil {
		return "", fmt.Errorf("failed to encode input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// OverrideReturn replaces the return model of in with m, keeping the seed,
// cadence and calendar.
func OverrideReturn(in *RunInput, m model.ReturnModel) {
	r := &in.Return
	r.Model = m.Kind.String()
	r.Percentage = decimal.NewFromFloat(m.AnnualPercent)
	r.Mean = decimal.NewFromFloat(m.MeanPercent)
	r.StdDev = decimal.NewFromFloat(m.StdDevPercent)
	r.Drift = decimal.NewFromFloat(m.DriftPercent)
	r.Volatility = decimal.NewFromFloat(m.VolatilityPercent)
}
