package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestContributionClassValid(t *testing.T) {
	for _, c := range []ContributionClass{ClassStartRelief, ClassPreferential, ClassSmallFlexible, ClassStandard} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, ContributionClass("vip").Valid())
	assert.False(t, ContributionClass("").Valid())
}

func TestInvestmentIsVehicle(t *testing.T) {
	assert.True(t, (&Investment{Type: InvestmentCarCash}).IsVehicle())
	assert.True(t, (&Investment{Type: InvestmentCarLeasing}).IsVehicle())
	assert.False(t, (&Investment{Type: InvestmentEquipment}).IsVehicle())
}

func TestInvestmentUnmarshalYAMLStringFractions(t *testing.T) {
	data := `type: car_leasing
cost: 150000
purchase_month: 3
engine_class: plug_in_hybrid
financing: lease
usage: mixed
down_payment_fraction: "0.10"
lease_term_months: 36
buyout_fraction: "0.01"
`
	var inv Investment
	require.NoError(t, yaml.Unmarshal([]byte(data), &inv))

	assert.Equal(t, InvestmentCarLeasing, inv.Type)
	assert.Equal(t, 3, inv.PurchaseMonth)
	require.NotNil(t, inv.DownPaymentFraction)
	assert.True(t, inv.DownPaymentFraction.Equal(decimal.NewFromFloat(0.1)))
	require.NotNil(t, inv.BuyoutFraction)
	assert.True(t, inv.BuyoutFraction.Equal(decimal.NewFromFloat(0.01)))
	require.NotNil(t, inv.LeaseTermMonths)
	assert.Equal(t, 36, *inv.LeaseTermMonths)
}

func TestInvestmentUnmarshalYAMLBadFraction(t *testing.T) {
	data := `type: car_leasing
cost: 100000
purchase_month: 1
down_payment_fraction: "a lot"
`
	var inv Investment
	err := yaml.Unmarshal([]byte(data), &inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down_payment_fraction")
}

func TestVehicleCeiling(t *testing.T) {
	rc := RateConfig{
		CeilingCombustion:   decimal.NewFromInt(100000),
		CeilingPlugInHybrid: decimal.NewFromInt(150000),
		CeilingElectric:     decimal.NewFromInt(225000),
	}

	assert.True(t, rc.VehicleCeiling(EngineCombustion).Equal(decimal.NewFromInt(100000)))
	assert.True(t, rc.VehicleCeiling(EnginePlugInHybrid).Equal(decimal.NewFromInt(150000)))
	assert.True(t, rc.VehicleCeiling(EngineElectric).Equal(decimal.NewFromInt(225000)))
	// Unknown classes fall back to the combustion ceiling.
	assert.True(t, rc.VehicleCeiling("").Equal(decimal.NewFromInt(100000)))
}

func TestComparisonResultBest(t *testing.T) {
	cr := ComparisonResult{
		LumpSum:     TaxResult{TaxationForm: FormLumpSum, NetCashInHand: decimal.NewFromInt(100)},
		Linear:      TaxResult{TaxationForm: FormLinear, NetCashInHand: decimal.NewFromInt(300)},
		Progressive: TaxResult{TaxationForm: FormProgressive, NetCashInHand: decimal.NewFromInt(200)},
	}
	assert.Equal(t, FormLinear, cr.Best().TaxationForm)

	results := cr.Results()
	require.Len(t, results, 3)
	assert.Equal(t, FormLumpSum, results[0].TaxationForm)
	assert.Equal(t, FormLinear, results[1].TaxationForm)
	assert.Equal(t, FormProgressive, results[2].TaxationForm)
}
