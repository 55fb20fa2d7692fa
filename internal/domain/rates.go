package domain

import (
	"github.com/shopspring/decimal"
)

// RateConfig contains every statutory figure for one fiscal year. The engine
// takes one active RateConfig per computation and never consults anything
// else, so changing a year's law means editing configuration, not code.
type RateConfig struct {
	Year int `yaml:"year" json:"year"`

	// Wage bases used to derive contribution bases.
	MinimumWage          decimal.Decimal `yaml:"minimum_wage" json:"minimumWage"`
	AverageWagePrognosis decimal.Decimal `yaml:"average_wage_prognosis" json:"averageWagePrognosis"`
	AverageWagePriorQ4   decimal.Decimal `yaml:"average_wage_prior_q4" json:"averageWagePriorQ4"`

	// Social-insurance component rates (monthly, applied to the class base).
	RetirementRate     decimal.Decimal `yaml:"retirement_rate" json:"retirementRate"`
	DisabilityRate     decimal.Decimal `yaml:"disability_rate" json:"disabilityRate"`
	AccidentRate       decimal.Decimal `yaml:"accident_rate" json:"accidentRate"`
	SicknessRate       decimal.Decimal `yaml:"sickness_rate" json:"sicknessRate"`
	LaborFundRate      decimal.Decimal `yaml:"labor_fund_rate" json:"laborFundRate"`
	SolidarityFundRate decimal.Decimal `yaml:"solidarity_fund_rate" json:"solidarityFundRate"`

	// Health-insurance rates per regime.
	HealthRateScale  decimal.Decimal `yaml:"health_rate_scale" json:"healthRateScale"`
	HealthRateLinear decimal.Decimal `yaml:"health_rate_linear" json:"healthRateLinear"`
	// HealthReferenceRate is the statutory 9% reference used for the linear
	// floor and the lump-sum formula.
	HealthReferenceRate decimal.Decimal `yaml:"health_reference_rate" json:"healthReferenceRate"`
	// LinearHealthDeductionCap is the annual ceiling on health insurance
	// deductible in the linear regime.
	LinearHealthDeductionCap decimal.Decimal `yaml:"linear_health_deduction_cap" json:"linearHealthDeductionCap"`

	// Lump-sum health tiering by cumulative yearly revenue.
	LumpSumHealthTier1Bound      decimal.Decimal `yaml:"lump_sum_health_tier1_bound" json:"lumpSumHealthTier1Bound"`
	LumpSumHealthTier2Bound      decimal.Decimal `yaml:"lump_sum_health_tier2_bound" json:"lumpSumHealthTier2Bound"`
	LumpSumHealthTier1Multiplier decimal.Decimal `yaml:"lump_sum_health_tier1_multiplier" json:"lumpSumHealthTier1Multiplier"`
	LumpSumHealthTier2Multiplier decimal.Decimal `yaml:"lump_sum_health_tier2_multiplier" json:"lumpSumHealthTier2Multiplier"`
	LumpSumHealthTier3Multiplier decimal.Decimal `yaml:"lump_sum_health_tier3_multiplier" json:"lumpSumHealthTier3Multiplier"`

	// Contribution-base factors per class.
	PreferentialBaseFactor decimal.Decimal `yaml:"preferential_base_factor" json:"preferentialBaseFactor"`
	StandardBaseFactor     decimal.Decimal `yaml:"standard_base_factor" json:"standardBaseFactor"`

	// Income tax parameters.
	LinearTaxRate          decimal.Decimal `yaml:"linear_tax_rate" json:"linearTaxRate"`
	ScaleTaxFreeAllowance  decimal.Decimal `yaml:"scale_tax_free_allowance" json:"scaleTaxFreeAllowance"`
	ScaleBracketThreshold  decimal.Decimal `yaml:"scale_bracket_threshold" json:"scaleBracketThreshold"`
	ScaleLowerRate         decimal.Decimal `yaml:"scale_lower_rate" json:"scaleLowerRate"`
	ScaleUpperRate         decimal.Decimal `yaml:"scale_upper_rate" json:"scaleUpperRate"`
	DefaultLumpSumFlatRate decimal.Decimal `yaml:"default_lump_sum_flat_rate" json:"defaultLumpSumFlatRate"`

	// Depreciation and VAT parameters.
	VATRate                   decimal.Decimal `yaml:"vat_rate" json:"vatRate"`
	VehicleDepreciationRate   decimal.Decimal `yaml:"vehicle_depreciation_rate" json:"vehicleDepreciationRate"`
	EquipmentDepreciationRate decimal.Decimal `yaml:"equipment_depreciation_rate" json:"equipmentDepreciationRate"`
	LeaseAnnualInterestRate   decimal.Decimal `yaml:"lease_annual_interest_rate" json:"leaseAnnualInterestRate"`
	MixedUseVATFraction       decimal.Decimal `yaml:"mixed_use_vat_fraction" json:"mixedUseVATFraction"`

	// Per-engine-class annual vehicle deduction ceilings.
	CeilingCombustion   decimal.Decimal `yaml:"ceiling_combustion" json:"ceilingCombustion"`
	CeilingPlugInHybrid decimal.Decimal `yaml:"ceiling_plug_in_hybrid" json:"ceilingPlugInHybrid"`
	CeilingElectric     decimal.Decimal `yaml:"ceiling_electric" json:"ceilingElectric"`
}

// VehicleCeiling returns the annual deduction ceiling for an engine class.
func (rc *RateConfig) VehicleCeiling(class EngineClass) decimal.Decimal {
	switch class {
	case EnginePlugInHybrid:
		return rc.CeilingPlugInHybrid
	case EngineElectric:
		return rc.CeilingElectric
	default:
		return rc.CeilingCombustion
	}
}
