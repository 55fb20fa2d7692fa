package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// ErrMissingLeaseParameters is returned when a lease-financed vehicle lacks
// its term, down-payment fraction, or buyout fraction. The whole scenario
// computation aborts rather than silently zeroing the investment, which
// would understate tax liability.
var ErrMissingLeaseParameters = errors.New("missing lease parameters")

var twelve = decimal.NewFromInt(12)

// DepreciationCalculator computes single-year depreciation deductions and
// VAT recovery for planned investments. All statutory figures come from the
// rate table.
type DepreciationCalculator struct {
	Rates domain.RateConfig
}

// NewDepreciationCalculator creates a calculator bound to one fiscal year's
// rate table.
func NewDepreciationCalculator(rates domain.RateConfig) *DepreciationCalculator {
	return &DepreciationCalculator{Rates: rates}
}

// monthsRemaining counts the months from the purchase month to year end,
// inclusive. Month 1 yields 12, month 12 yields 1.
func monthsRemaining(purchaseMonth int) decimal.Decimal {
	return decimal.NewFromInt(int64(13 - purchaseMonth))
}

// VehicleDepreciation returns the vehicle's deductible depreciation for the
// projected year.
//
// Cash purchases depreciate straight-line on min(price, ceiling), prorated
// by the months remaining in the year. Leases deduct the down payment and
// the elapsed capital installments, both proportionally capped by
// ceiling/price when the price exceeds the ceiling, plus a flat-rate
// interest component that is never capped. A zero-priced lease is treated as
// uncapped (ratio 1): a free asset satisfies any ceiling.
func (dc *DepreciationCalculator) VehicleDepreciation(inv domain.Investment) (decimal.Decimal, error) {
	ceiling := dc.Rates.VehicleCeiling(inv.EngineClass)
	months := monthsRemaining(inv.PurchaseMonth)

	if inv.Financing != domain.FinancingLease {
		base := decimal.Min(inv.Cost, ceiling)
		return base.Mul(dc.Rates.VehicleDepreciationRate).Mul(months).Div(twelve), nil
	}

	if inv.DownPaymentFraction == nil || inv.LeaseTermMonths == nil || inv.BuyoutFraction == nil {
		return decimal.Zero, fmt.Errorf("%w: vehicle %q", ErrMissingLeaseParameters, inv.Name)
	}

	price := inv.Cost
	term := decimal.NewFromInt(int64(*inv.LeaseTermMonths))
	downPayment := price.Mul(*inv.DownPaymentFraction)
	buyout := price.Mul(*inv.BuyoutFraction)
	capital := price.Sub(downPayment).Sub(buyout)

	ratio := decimal.NewFromInt(1)
	if price.GreaterThan(decimal.Zero) {
		ratio = decimal.Min(decimal.NewFromInt(1), ceiling.Div(price))
	}

	thisYearMonths := decimal.Min(months, term)

	capitalInstallments := capital.Div(term).Mul(thisYearMonths)
	// Interest on the capital portion is fully deductible: the price ceiling
	// applies to the asset's value, not to financing cost.
	interest := capital.Mul(dc.Rates.LeaseAnnualInterestRate).Mul(thisYearMonths).Div(twelve)

	deduction := downPayment.Mul(ratio).
		Add(capitalInstallments.Mul(ratio)).
		Add(interest)
	return deduction, nil
}

// VehicleVATBenefit returns the VAT recoverable on a vehicle purchase. Full
// business use recovers the whole VAT amount; mixed use recovers the
// statutory fraction (50%). Financing and engine class play no role here.
func (dc *DepreciationCalculator) VehicleVATBenefit(inv domain.Investment) decimal.Decimal {
	vat := inv.Cost.Mul(dc.Rates.VATRate)
	if inv.Usage == domain.UsageFullBusiness {
		return vat
	}
	return vat.Mul(dc.Rates.MixedUseVATFraction)
}

// EquipmentDepreciation returns the equipment's deductible depreciation for
// the projected year: a flat 30% annual rate, prorated by months remaining,
// with no ceiling.
func (dc *DepreciationCalculator) EquipmentDepreciation(inv domain.Investment) decimal.Decimal {
	return inv.Cost.Mul(dc.Rates.EquipmentDepreciationRate).Mul(monthsRemaining(inv.PurchaseMonth)).Div(twelve)
}
