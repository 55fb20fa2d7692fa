package domain

import (
	"github.com/shopspring/decimal"
)

// DeductionBreakdown itemizes the investment-driven parts of a TaxResult.
type DeductionBreakdown struct {
	CarDepreciationDeduction       decimal.Decimal `json:"carDepreciationDeduction"`
	EquipmentDepreciationDeduction decimal.Decimal `json:"equipmentDepreciationDeduction"`
	VATBenefit                     decimal.Decimal `json:"vatBenefit"`
}

// TaxResult is the outcome of evaluating one scenario under one regime.
// Field names follow the wire envelope consumed by the frontend, so the
// engine output round-trips through the API without translation.
type TaxResult struct {
	TaxationForm    TaxationForm    `json:"taxationForm"`
	GrossRevenue    decimal.Decimal `json:"grossRevenue"`
	TotalCosts      decimal.Decimal `json:"totalCosts"`
	TaxableIncome   decimal.Decimal `json:"taxableIncome"`
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	HealthInsurance decimal.Decimal `json:"healthInsurance"`
	ZUSTotal        decimal.Decimal `json:"zusTotal"`
	NetCashInHand   decimal.Decimal `json:"netCashInHand"`

	Breakdown DeductionBreakdown `json:"breakdown"`
}

// ComparisonResult holds the three regimes evaluated against one scenario
// snapshot. It is immutable once returned.
type ComparisonResult struct {
	LumpSum     TaxResult `json:"ryczalt"`
	Linear      TaxResult `json:"liniowy"`
	Progressive TaxResult `json:"skala"`
}

// Best returns the regime with the highest net cash in hand.
func (cr *ComparisonResult) Best() TaxResult {
	best := cr.LumpSum
	if cr.Linear.NetCashInHand.GreaterThan(best.NetCashInHand) {
		best = cr.Linear
	}
	if cr.Progressive.NetCashInHand.GreaterThan(best.NetCashInHand) {
		best = cr.Progressive
	}
	return best
}

// Results returns the three regime results in presentation order.
func (cr *ComparisonResult) Results() []TaxResult {
	return []TaxResult{cr.LumpSum, cr.Linear, cr.Progressive}
}
