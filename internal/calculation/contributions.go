package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// SocialInsuranceBreakdown itemizes the monthly components of a ZUS charge.
type SocialInsuranceBreakdown struct {
	Retirement     decimal.Decimal
	Disability     decimal.Decimal
	Accident       decimal.Decimal
	Sickness       decimal.Decimal
	LaborFund      decimal.Decimal
	SolidarityFund decimal.Decimal
}

// SocialInsuranceResult is the monthly social-insurance charge for one class.
type SocialInsuranceResult struct {
	Amount    decimal.Decimal
	Base      decimal.Decimal
	Breakdown SocialInsuranceBreakdown
}

// HealthInsuranceResult is the monthly health-insurance charge for one
// regime, with the statutory deductibility of that amount.
type HealthInsuranceResult struct {
	Amount               decimal.Decimal
	DeductibleFromIncome decimal.Decimal
	DeductibleFromTax    decimal.Decimal
}

// ContributionCalculator computes mandatory social- and health-insurance
// contributions from a rate table. It is stateless and safe for concurrent
// use.
type ContributionCalculator struct {
	Rates domain.RateConfig
}

// NewContributionCalculator creates a calculator bound to one fiscal year's
// rate table.
func NewContributionCalculator(rates domain.RateConfig) *ContributionCalculator {
	return &ContributionCalculator{Rates: rates}
}

// contributionBase derives the monthly social-insurance base for a class.
// Start relief contributes nothing; preferential pays on 30% of minimum
// wage; standard pays on 60% of the average-wage prognosis; small-flexible
// pays on a user-chosen base, defaulting to minimum wage.
func (cc *ContributionCalculator) contributionBase(class domain.ContributionClass, customBase *decimal.Decimal) decimal.Decimal {
	switch class {
	case domain.ClassStartRelief:
		return decimal.Zero
	case domain.ClassPreferential:
		return cc.Rates.MinimumWage.Mul(cc.Rates.PreferentialBaseFactor)
	case domain.ClassStandard:
		return cc.Rates.AverageWagePrognosis.Mul(cc.Rates.StandardBaseFactor)
	default: // small flexible
		if customBase != nil {
			return *customBase
		}
		return cc.Rates.MinimumWage
	}
}

// ComputeSocialInsurance computes the monthly social-insurance charge for a
// contribution class. Sickness insurance is voluntary and included only when
// opted in. Labor-fund and solidarity-fund charges are waived for the
// preferential class while its base stays below minimum wage (statutory
// carve-out, preserved as-is).
func (cc *ContributionCalculator) ComputeSocialInsurance(class domain.ContributionClass, customBase *decimal.Decimal, sicknessOptIn bool) SocialInsuranceResult {
	base := cc.contributionBase(class, customBase)
	if base.IsZero() {
		return SocialInsuranceResult{Amount: decimal.Zero, Base: base}
	}

	breakdown := SocialInsuranceBreakdown{
		Retirement: base.Mul(cc.Rates.RetirementRate),
		Disability: base.Mul(cc.Rates.DisabilityRate),
		Accident:   base.Mul(cc.Rates.AccidentRate),
	}
	if sicknessOptIn {
		breakdown.Sickness = base.Mul(cc.Rates.SicknessRate)
	}

	fundsWaived := class == domain.ClassPreferential && base.LessThan(cc.Rates.MinimumWage)
	if !fundsWaived {
		breakdown.LaborFund = base.Mul(cc.Rates.LaborFundRate)
		breakdown.SolidarityFund = base.Mul(cc.Rates.SolidarityFundRate)
	}

	amount := breakdown.Retirement.
		Add(breakdown.Disability).
		Add(breakdown.Accident).
		Add(breakdown.Sickness).
		Add(breakdown.LaborFund).
		Add(breakdown.SolidarityFund)

	return SocialInsuranceResult{Amount: amount, Base: base, Breakdown: breakdown}
}

// ComputeYearlySocialInsurance is the monthly charge times twelve; the
// single-year view assumes a constant base across all months.
func (cc *ContributionCalculator) ComputeYearlySocialInsurance(class domain.ContributionClass, customBase *decimal.Decimal, sicknessOptIn bool) decimal.Decimal {
	monthly := cc.ComputeSocialInsurance(class, customBase, sicknessOptIn)
	return monthly.Amount.Mul(decimal.NewFromInt(12))
}

// ComputeHealthInsurance computes the monthly health-insurance charge under
// one regime.
//
//   - Progressive scale: max(income, minimum wage) times the scale rate,
//     deductible from income in full.
//   - Linear: max(income, minimum wage) times the linear rate, floored at 9%
//     of minimum wage; deductible from income (the statutory tax-credit
//     alternative is intentionally not modeled).
//   - Lump sum: prior-year Q4 average wage times 9%, scaled by a multiplier
//     tiered on cumulative yearly revenue; half the amount is deductible.
func (cc *ContributionCalculator) ComputeHealthInsurance(form domain.TaxationForm, monthlyNetIncome, yearlyRevenueToDate decimal.Decimal) HealthInsuranceResult {
	switch form {
	case domain.FormProgressive:
		base := decimal.Max(monthlyNetIncome, cc.Rates.MinimumWage)
		amount := base.Mul(cc.Rates.HealthRateScale)
		return HealthInsuranceResult{Amount: amount, DeductibleFromIncome: amount}

	case domain.FormLinear:
		base := decimal.Max(monthlyNetIncome, cc.Rates.MinimumWage)
		amount := decimal.Max(base.Mul(cc.Rates.HealthRateLinear), cc.Rates.MinimumWage.Mul(cc.Rates.HealthReferenceRate))
		return HealthInsuranceResult{Amount: amount, DeductibleFromIncome: amount}

	default: // lump sum
		multiplier := cc.lumpSumHealthMultiplier(yearlyRevenueToDate)
		amount := cc.Rates.AverageWagePriorQ4.Mul(cc.Rates.HealthReferenceRate).Mul(multiplier)
		return HealthInsuranceResult{
			Amount:               amount,
			DeductibleFromIncome: amount.Div(decimal.NewFromInt(2)),
		}
	}
}

// lumpSumHealthMultiplier picks the revenue tier for the lump-sum health
// formula.
func (cc *ContributionCalculator) lumpSumHealthMultiplier(yearlyRevenue decimal.Decimal) decimal.Decimal {
	switch {
	case yearlyRevenue.LessThanOrEqual(cc.Rates.LumpSumHealthTier1Bound):
		return cc.Rates.LumpSumHealthTier1Multiplier
	case yearlyRevenue.LessThanOrEqual(cc.Rates.LumpSumHealthTier2Bound):
		return cc.Rates.LumpSumHealthTier2Multiplier
	default:
		return cc.Rates.LumpSumHealthTier3Multiplier
	}
}
