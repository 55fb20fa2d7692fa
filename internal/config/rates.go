package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// statutoryRates are the components that stay identical across the seeded
// years; only wage bases and caps move.
func statutoryRates(year int, minimumWage, averagePrognosis, priorQ4, linearHealthCap decimal.Decimal) domain.RateConfig {
	return domain.RateConfig{
		Year:                 year,
		MinimumWage:          minimumWage,
		AverageWagePrognosis: averagePrognosis,
		AverageWagePriorQ4:   priorQ4,

		RetirementRate:     decimal.NewFromFloat(0.1952),
		DisabilityRate:     decimal.NewFromFloat(0.08),
		AccidentRate:       decimal.NewFromFloat(0.0167),
		SicknessRate:       decimal.NewFromFloat(0.0245),
		LaborFundRate:      decimal.NewFromFloat(0.0100),
		SolidarityFundRate: decimal.NewFromFloat(0.0145),

		HealthRateScale:          decimal.NewFromFloat(0.09),
		HealthRateLinear:         decimal.NewFromFloat(0.049),
		HealthReferenceRate:      decimal.NewFromFloat(0.09),
		LinearHealthDeductionCap: linearHealthCap,

		LumpSumHealthTier1Bound:      decimal.NewFromInt(60000),
		LumpSumHealthTier2Bound:      decimal.NewFromInt(300000),
		LumpSumHealthTier1Multiplier: decimal.NewFromFloat(0.6),
		LumpSumHealthTier2Multiplier: decimal.NewFromFloat(1.0),
		LumpSumHealthTier3Multiplier: decimal.NewFromFloat(1.8),

		PreferentialBaseFactor: decimal.NewFromFloat(0.30),
		StandardBaseFactor:     decimal.NewFromFloat(0.60),

		LinearTaxRate:          decimal.NewFromFloat(0.19),
		ScaleTaxFreeAllowance:  decimal.NewFromInt(30000),
		ScaleBracketThreshold:  decimal.NewFromInt(120000),
		ScaleLowerRate:         decimal.NewFromFloat(0.12),
		ScaleUpperRate:         decimal.NewFromFloat(0.32),
		DefaultLumpSumFlatRate: decimal.NewFromFloat(0.12),

		VATRate:                   decimal.NewFromFloat(0.23),
		VehicleDepreciationRate:   decimal.NewFromFloat(0.20),
		EquipmentDepreciationRate: decimal.NewFromFloat(0.30),
		LeaseAnnualInterestRate:   decimal.NewFromFloat(0.05),
		MixedUseVATFraction:       decimal.NewFromFloat(0.50),

		CeilingCombustion:   decimal.NewFromInt(100000),
		CeilingPlugInHybrid: decimal.NewFromInt(150000),
		CeilingElectric:     decimal.NewFromInt(225000),
	}
}

// DefaultRateConfigs returns the seeded statutory rate tables for fiscal
// years 2025 through 2028. Years beyond the published figures carry
// ministry prognosis values and should be overridden once official numbers
// land.
func DefaultRateConfigs() []domain.RateConfig {
	return []domain.RateConfig{
		statutoryRates(2025,
			decimal.NewFromInt(4666),
			decimal.NewFromInt(8673),
			decimal.NewFromFloat(8549.18),
			decimal.NewFromInt(12900)),
		statutoryRates(2026,
			decimal.NewFromInt(4806),
			decimal.NewFromInt(9420),
			decimal.NewFromFloat(9054.00),
			decimal.NewFromInt(13500)),
		statutoryRates(2027,
			decimal.NewFromInt(4950),
			decimal.NewFromInt(9900),
			decimal.NewFromFloat(9520.00),
			decimal.NewFromInt(14100)),
		statutoryRates(2028,
			decimal.NewFromInt(5100),
			decimal.NewFromInt(10400),
			decimal.NewFromFloat(10010.00),
			decimal.NewFromInt(14700)),
	}
}

// DefaultRateYear is the fiscal year used when a caller does not select one.
const DefaultRateYear = 2026

// RatesForYear finds the rate table for a fiscal year within a slice.
func RatesForYear(configs []domain.RateConfig, year int) (domain.RateConfig, error) {
	for _, rc := range configs {
		if rc.Year == year {
			return rc, nil
		}
	}
	return domain.RateConfig{}, fmt.Errorf("configuration not found for year %d", year)
}

// LoadRateConfigs reads rate tables from a YAML file, replacing the seeded
// defaults entirely. The file holds a list of rate_config documents.
func LoadRateConfigs(filename string) ([]domain.RateConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var wrapper struct {
		RateConfigs []domain.RateConfig `yaml:"rate_configs"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(wrapper.RateConfigs) == 0 {
		return nil, fmt.Errorf("no rate configs in %s", filename)
	}

	for i, rc := range wrapper.RateConfigs {
		if err := validateRateConfig(&rc); err != nil {
			return nil, fmt.Errorf("rate config %d (year %d): %w", i, rc.Year, err)
		}
	}
	return wrapper.RateConfigs, nil
}

// validateRateConfig rejects tables that would make the engine produce
// nonsense: negative rates or missing wage bases.
func validateRateConfig(rc *domain.RateConfig) error {
	if rc.Year < 2000 || rc.Year > 2100 {
		return fmt.Errorf("implausible year %d", rc.Year)
	}
	if rc.MinimumWage.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("minimum wage must be positive")
	}
	if rc.AverageWagePrognosis.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("average wage prognosis must be positive")
	}
	if rc.AverageWagePriorQ4.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("prior Q4 average wage must be positive")
	}
	for name, rate := range map[string]decimal.Decimal{
		"retirement_rate":      rc.RetirementRate,
		"disability_rate":      rc.DisabilityRate,
		"accident_rate":        rc.AccidentRate,
		"sickness_rate":        rc.SicknessRate,
		"labor_fund_rate":      rc.LaborFundRate,
		"solidarity_fund_rate": rc.SolidarityFundRate,
		"health_rate_scale":    rc.HealthRateScale,
		"health_rate_linear":   rc.HealthRateLinear,
		"vat_rate":             rc.VATRate,
		"linear_tax_rate":      rc.LinearTaxRate,
		"scale_lower_rate":     rc.ScaleLowerRate,
		"scale_upper_rate":     rc.ScaleUpperRate,
	} {
		if rate.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if rc.CeilingCombustion.LessThanOrEqual(decimal.Zero) || rc.CeilingPlugInHybrid.LessThanOrEqual(decimal.Zero) || rc.CeilingElectric.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("vehicle ceilings must be positive")
	}
	return nil
}
