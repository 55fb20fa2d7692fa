package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// Engine evaluates a scenario under the three taxation regimes. It holds no
// per-scenario state; every call reads only its inputs, so one Engine may be
// shared across goroutines.
type Engine struct {
	Logger Logger
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger. A nil logger restores the no-op default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// investmentTotals aggregates the deduction and VAT effects of every planned
// investment. A lease vehicle with missing parameters fails the whole
// aggregation.
type investmentTotals struct {
	CarDepreciation       decimal.Decimal
	EquipmentDepreciation decimal.Decimal
	VATBenefit            decimal.Decimal
}

func (e *Engine) aggregateInvestments(scenario *domain.Scenario) (investmentTotals, error) {
	dep := NewDepreciationCalculator(scenario.Rates)
	var totals investmentTotals

	for _, inv := range scenario.Investments {
		if inv.IsVehicle() {
			d, err := dep.VehicleDepreciation(inv)
			if err != nil {
				return investmentTotals{}, err
			}
			totals.CarDepreciation = totals.CarDepreciation.Add(d)
			if scenario.VATPayer {
				totals.VATBenefit = totals.VATBenefit.Add(dep.VehicleVATBenefit(inv).Mul(scenario.VATRecoverableFraction))
			}
			continue
		}

		totals.EquipmentDepreciation = totals.EquipmentDepreciation.Add(dep.EquipmentDepreciation(inv))
		if scenario.VATPayer {
			totals.VATBenefit = totals.VATBenefit.Add(inv.Cost.Mul(scenario.Rates.VATRate).Mul(scenario.VATRecoverableFraction))
		}
	}
	return totals, nil
}

// lumpSumRate resolves the industry-specific revenue tax rate, falling back
// to the rate table's default when the scenario leaves it unset.
func lumpSumRate(scenario *domain.Scenario) decimal.Decimal {
	if scenario.LumpSumFlatRate.IsPositive() {
		return scenario.LumpSumFlatRate
	}
	return scenario.Rates.DefaultLumpSumFlatRate
}

// CalculateLumpSum evaluates the ryczałt regime: revenue taxed at a flat
// industry rate, investments never reduce the base, health insurance tiered
// on yearly revenue.
func (e *Engine) CalculateLumpSum(scenario *domain.Scenario) (domain.TaxResult, error) {
	totals, err := e.aggregateInvestments(scenario)
	if err != nil {
		return domain.TaxResult{}, err
	}

	contrib := NewContributionCalculator(scenario.Rates)
	revenue := scenario.YearlyRevenueNet

	incomeTax := revenue.Mul(lumpSumRate(scenario))
	health := contrib.ComputeHealthInsurance(domain.FormLumpSum, revenue.Div(twelve), revenue).Amount.Mul(twelve)
	social := contrib.ComputeYearlySocialInsurance(scenario.ContributionClass, scenario.CustomContributionBase, scenario.SicknessOptIn)

	netCash := revenue.Sub(incomeTax).Sub(health).Sub(social).Add(totals.VATBenefit)

	return domain.TaxResult{
		TaxationForm:    domain.FormLumpSum,
		GrossRevenue:    revenue,
		TotalCosts:      decimal.Zero,
		TaxableIncome:   revenue,
		IncomeTax:       incomeTax,
		HealthInsurance: health,
		ZUSTotal:        social,
		NetCashInHand:   netCash,
		Breakdown: domain.DeductionBreakdown{
			CarDepreciationDeduction:       decimal.Zero,
			EquipmentDepreciationDeduction: decimal.Zero,
			VATBenefit:                     totals.VATBenefit,
		},
	}, nil
}

// CalculateLinear evaluates the liniowy regime: a flat tax on revenue minus
// costs and depreciation, with health insurance capped by the statutory
// annual deduction ceiling.
func (e *Engine) CalculateLinear(scenario *domain.Scenario) (domain.TaxResult, error) {
	totals, err := e.aggregateInvestments(scenario)
	if err != nil {
		return domain.TaxResult{}, err
	}

	contrib := NewContributionCalculator(scenario.Rates)
	revenue := scenario.YearlyRevenueNet

	totalCosts := scenario.YearlyFixedCosts.Add(totals.CarDepreciation).Add(totals.EquipmentDepreciation)
	taxable := decimal.Max(decimal.Zero, revenue.Sub(totalCosts))
	incomeTax := taxable.Mul(scenario.Rates.LinearTaxRate)
	health := decimal.Min(taxable.Mul(scenario.Rates.HealthRateLinear), scenario.Rates.LinearHealthDeductionCap)
	social := contrib.ComputeYearlySocialInsurance(scenario.ContributionClass, scenario.CustomContributionBase, scenario.SicknessOptIn)

	netCash := revenue.Sub(totalCosts).Sub(incomeTax).Sub(health).Sub(social).Add(totals.VATBenefit)

	return domain.TaxResult{
		TaxationForm:    domain.FormLinear,
		GrossRevenue:    revenue,
		TotalCosts:      totalCosts,
		TaxableIncome:   taxable,
		IncomeTax:       incomeTax,
		HealthInsurance: health,
		ZUSTotal:        social,
		NetCashInHand:   netCash,
		Breakdown: domain.DeductionBreakdown{
			CarDepreciationDeduction:       totals.CarDepreciation,
			EquipmentDepreciationDeduction: totals.EquipmentDepreciation,
			VATBenefit:                     totals.VATBenefit,
		},
	}, nil
}

// CalculateProgressive evaluates the skala regime: two-bracket progressive
// tax after a fixed tax-free allowance; health insurance is charged on
// pre-allowance income and is not deductible anywhere.
func (e *Engine) CalculateProgressive(scenario *domain.Scenario) (domain.TaxResult, error) {
	totals, err := e.aggregateInvestments(scenario)
	if err != nil {
		return domain.TaxResult{}, err
	}

	contrib := NewContributionCalculator(scenario.Rates)
	rates := scenario.Rates
	revenue := scenario.YearlyRevenueNet

	totalCosts := scenario.YearlyFixedCosts.Add(totals.CarDepreciation).Add(totals.EquipmentDepreciation)
	income := decimal.Max(decimal.Zero, revenue.Sub(totalCosts))
	taxable := decimal.Max(decimal.Zero, income.Sub(rates.ScaleTaxFreeAllowance))

	var incomeTax decimal.Decimal
	if taxable.GreaterThan(rates.ScaleBracketThreshold) {
		lower := rates.ScaleBracketThreshold.Mul(rates.ScaleLowerRate)
		upper := taxable.Sub(rates.ScaleBracketThreshold).Mul(rates.ScaleUpperRate)
		incomeTax = lower.Add(upper)
	} else {
		incomeTax = taxable.Mul(rates.ScaleLowerRate)
	}

	health := income.Mul(rates.HealthRateScale)
	social := contrib.ComputeYearlySocialInsurance(scenario.ContributionClass, scenario.CustomContributionBase, scenario.SicknessOptIn)

	netCash := revenue.Sub(totalCosts).Sub(incomeTax).Sub(health).Sub(social).Add(totals.VATBenefit)

	return domain.TaxResult{
		TaxationForm:    domain.FormProgressive,
		GrossRevenue:    revenue,
		TotalCosts:      totalCosts,
		TaxableIncome:   taxable,
		IncomeTax:       incomeTax,
		HealthInsurance: health,
		ZUSTotal:        social,
		NetCashInHand:   netCash,
		Breakdown: domain.DeductionBreakdown{
			CarDepreciationDeduction:       totals.CarDepreciation,
			EquipmentDepreciationDeduction: totals.EquipmentDepreciation,
			VATBenefit:                     totals.VATBenefit,
		},
	}, nil
}

// Calculate dispatches to the regime calculator for a taxation form. The set
// of regimes is closed; an unknown form is a programming error surfaced as
// an error rather than a panic.
func (e *Engine) Calculate(form domain.TaxationForm, scenario *domain.Scenario) (domain.TaxResult, error) {
	switch form {
	case domain.FormLumpSum:
		return e.CalculateLumpSum(scenario)
	case domain.FormLinear:
		return e.CalculateLinear(scenario)
	case domain.FormProgressive:
		return e.CalculateProgressive(scenario)
	default:
		return domain.TaxResult{}, fmt.Errorf("unknown taxation form %q", form)
	}
}

// CompareAll evaluates all three regimes against one scenario snapshot. The
// regimes share no state, so the three results are exactly what the
// individual calculators return in any order.
func (e *Engine) CompareAll(scenario *domain.Scenario) (*domain.ComparisonResult, error) {
	lumpSum, err := e.CalculateLumpSum(scenario)
	if err != nil {
		return nil, fmt.Errorf("lump sum: %w", err)
	}
	linear, err := e.CalculateLinear(scenario)
	if err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	progressive, err := e.CalculateProgressive(scenario)
	if err != nil {
		return nil, fmt.Errorf("progressive: %w", err)
	}

	e.Logger.Debugf("comparison for revenue %s: ryczalt=%s liniowy=%s skala=%s",
		scenario.YearlyRevenueNet.StringFixed(2),
		lumpSum.NetCashInHand.StringFixed(2),
		linear.NetCashInHand.StringFixed(2),
		progressive.NetCashInHand.StringFixed(2))

	return &domain.ComparisonResult{
		LumpSum:     lumpSum,
		Linear:      linear,
		Progressive: progressive,
	}, nil
}
