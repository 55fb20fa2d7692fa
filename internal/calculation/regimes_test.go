package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// baseScenario is the reference case: 180k revenue, 36k fixed costs, VAT
// payer with full recovery, small-flexible contributions, no investments,
// 2026 rate table.
func baseScenario(t *testing.T) *domain.Scenario {
	t.Helper()
	return &domain.Scenario{
		YearlyRevenueNet:       decimal.NewFromInt(180000),
		YearlyFixedCosts:       decimal.NewFromInt(36000),
		VATPayer:               true,
		VATRecoverableFraction: decimal.NewFromInt(1),
		ContributionClass:      domain.ClassSmallFlexible,
		LumpSumFlatRate:        decimal.NewFromFloat(0.12),
		Rates:                  rates2026(t),
	}
}

func TestCalculateLumpSum(t *testing.T) {
	engine := NewEngine()
	result, err := engine.CalculateLumpSum(baseScenario(t))
	require.NoError(t, err)

	assert.Equal(t, domain.FormLumpSum, result.TaxationForm)
	assertDecimalEqual(t, "21600", result.IncomeTax) // 180000 * 0.12
	assert.True(t, result.TotalCosts.IsZero(), "investments never reduce the lump-sum base")
	assertDecimalEqual(t, "9778.32", result.HealthInsurance) // 9054 * 0.09 * 1.0 * 12
	assertDecimalEqual(t, "18247.4208", result.ZUSTotal)
	assertDecimalEqual(t, "130374.2592", result.NetCashInHand)
}

func TestCalculateLinear(t *testing.T) {
	engine := NewEngine()
	result, err := engine.CalculateLinear(baseScenario(t))
	require.NoError(t, err)

	assert.Equal(t, domain.FormLinear, result.TaxationForm)
	assertDecimalEqual(t, "144000", result.TaxableIncome)
	assertDecimalEqual(t, "27360", result.IncomeTax) // 144000 * 0.19
	assertDecimalEqual(t, "7056", result.HealthInsurance) // 144000 * 0.049, under the 13500 cap
	assertDecimalEqual(t, "91336.5792", result.NetCashInHand)
}

func TestCalculateLinearHealthCap(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.YearlyRevenueNet = decimal.NewFromInt(500000)
	scenario.YearlyFixedCosts = decimal.Zero

	result, err := engine.CalculateLinear(scenario)
	require.NoError(t, err)
	// 500000 * 0.049 = 24500 would exceed the annual deduction ceiling.
	assertDecimalEqual(t, "13500", result.HealthInsurance)
}

func TestCalculateProgressive(t *testing.T) {
	engine := NewEngine()
	result, err := engine.CalculateProgressive(baseScenario(t))
	require.NoError(t, err)

	assert.Equal(t, domain.FormProgressive, result.TaxationForm)
	assertDecimalEqual(t, "114000", result.TaxableIncome) // 144000 - 30000 allowance
	assertDecimalEqual(t, "13680", result.IncomeTax)      // below the 120k threshold
	assertDecimalEqual(t, "12960", result.HealthInsurance) // 144000 * 0.09
	assertDecimalEqual(t, "99112.5792", result.NetCashInHand)
}

func TestCalculateProgressiveUpperBracket(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.YearlyRevenueNet = decimal.NewFromInt(300000)
	scenario.YearlyFixedCosts = decimal.Zero

	result, err := engine.CalculateProgressive(scenario)
	require.NoError(t, err)
	assertDecimalEqual(t, "270000", result.TaxableIncome)
	// 120000*0.12 + 150000*0.32
	assertDecimalEqual(t, "62400", result.IncomeTax)
}

func TestCalculateProgressiveLossYieldsNoTax(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.YearlyRevenueNet = decimal.NewFromInt(20000)
	scenario.YearlyFixedCosts = decimal.NewFromInt(50000)

	result, err := engine.CalculateProgressive(scenario)
	require.NoError(t, err)
	assert.True(t, result.TaxableIncome.IsZero())
	assert.True(t, result.IncomeTax.IsZero())
	assert.True(t, result.HealthInsurance.IsZero(), "no income, no scale health charge")
}

func TestLumpSumRateFallsBackToRateTable(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.LumpSumFlatRate = decimal.Zero

	result, err := engine.CalculateLumpSum(scenario)
	require.NoError(t, err)
	assertDecimalEqual(t, "21600", result.IncomeTax) // default 12%
}

func TestCompareAllMatchesIndividualCalculators(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.Investments = []domain.Investment{
		{
			Type:          domain.InvestmentCarCash,
			Cost:          d("120000"),
			PurchaseMonth: 4,
			EngineClass:   domain.EngineCombustion,
			Financing:     domain.FinancingCash,
			Usage:         domain.UsageMixed,
		},
		{Type: domain.InvestmentEquipment, Cost: d("15000"), PurchaseMonth: 2},
	}

	comparison, err := engine.CompareAll(scenario)
	require.NoError(t, err)

	lumpSum, err := engine.CalculateLumpSum(scenario)
	require.NoError(t, err)
	linear, err := engine.CalculateLinear(scenario)
	require.NoError(t, err)
	progressive, err := engine.CalculateProgressive(scenario)
	require.NoError(t, err)

	assert.Equal(t, lumpSum, comparison.LumpSum)
	assert.Equal(t, linear, comparison.Linear)
	assert.Equal(t, progressive, comparison.Progressive)
}

func TestNetCashMonotonicInRevenue(t *testing.T) {
	engine := NewEngine()
	forms := []domain.TaxationForm{domain.FormLumpSum, domain.FormLinear, domain.FormProgressive}

	for _, form := range forms {
		t.Run(string(form), func(t *testing.T) {
			previous := decimal.NewFromInt(-1 << 40)
			for revenue := int64(50000); revenue <= 500000; revenue += 50000 {
				scenario := baseScenario(t)
				scenario.YearlyRevenueNet = decimal.NewFromInt(revenue)

				result, err := engine.Calculate(form, scenario)
				require.NoError(t, err)
				assert.True(t, result.NetCashInHand.GreaterThanOrEqual(previous),
					"net cash decreased at revenue %d: %s < %s", revenue, result.NetCashInHand, previous)
				previous = result.NetCashInHand
			}
		})
	}
}

func TestVATBenefitScaling(t *testing.T) {
	engine := NewEngine()

	vehicle := domain.Investment{
		Type:          domain.InvestmentCarCash,
		Cost:          d("80000"),
		PurchaseMonth: 1,
		EngineClass:   domain.EngineCombustion,
		Financing:     domain.FinancingCash,
		Usage:         domain.UsageFullBusiness,
	}

	tests := []struct {
		name     string
		vatPayer bool
		fraction string
		usage    domain.Usage
		expected string
	}{
		{"full business scales by recoverable fraction", true, "0.8", domain.UsageFullBusiness, "14720"}, // 80000*0.23*0.8
		{"mixed use halves the benefit", true, "0.8", domain.UsageMixed, "7360"},
		{"non-VAT payer gets nothing", false, "1", domain.UsageFullBusiness, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := baseScenario(t)
			scenario.VATPayer = tt.vatPayer
			scenario.VATRecoverableFraction = d(tt.fraction)
			v := vehicle
			v.Usage = tt.usage
			scenario.Investments = []domain.Investment{v}

			result, err := engine.CalculateLinear(scenario)
			require.NoError(t, err)
			assertDecimalEqual(t, tt.expected, result.Breakdown.VATBenefit)
		})
	}
}

func TestEquipmentVATBenefit(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.Investments = []domain.Investment{
		{Type: domain.InvestmentEquipment, Cost: d("10000"), PurchaseMonth: 1},
	}

	result, err := engine.CalculateLinear(scenario)
	require.NoError(t, err)
	assertDecimalEqual(t, "2300", result.Breakdown.VATBenefit) // 10000 * 0.23
	assertDecimalEqual(t, "3000", result.Breakdown.EquipmentDepreciationDeduction)
}

func TestCompareAllFailsOnMissingLeaseParameters(t *testing.T) {
	engine := NewEngine()
	scenario := baseScenario(t)
	scenario.Investments = []domain.Investment{
		{
			Type:          domain.InvestmentCarLeasing,
			Cost:          d("100000"),
			PurchaseMonth: 1,
			EngineClass:   domain.EngineCombustion,
			Financing:     domain.FinancingLease,
			Usage:         domain.UsageMixed,
		},
	}

	_, err := engine.CompareAll(scenario)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLeaseParameters)
}

func TestCalculateUnknownForm(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Calculate(domain.TaxationForm("karta"), baseScenario(t))
	require.Error(t, err)
}

func TestComparisonBest(t *testing.T) {
	engine := NewEngine()
	comparison, err := engine.CompareAll(baseScenario(t))
	require.NoError(t, err)

	best := comparison.Best()
	for _, r := range comparison.Results() {
		assert.True(t, best.NetCashInHand.GreaterThanOrEqual(r.NetCashInHand))
	}
}
