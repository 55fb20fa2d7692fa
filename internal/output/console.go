package output

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pitgo/regime-calculator/internal/domain"
	"github.com/pitgo/regime-calculator/pkg/money"
)

// formLabels maps regime tags to the names shown to users.
var formLabels = map[domain.TaxationForm]string{
	domain.FormLumpSum:     "Ryczałt",
	domain.FormLinear:      "Liniowy",
	domain.FormProgressive: "Skala",
}

// ConsoleFormatter renders the comparison as an aligned text table.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "TAX REGIME COMPARISON")
	fmt.Fprintln(&buf, "=====================")
	fmt.Fprintln(&buf)

	rows := []struct {
		label string
		pick  func(domain.TaxResult) decimal.Decimal
	}{
		{"Gross revenue", func(r domain.TaxResult) decimal.Decimal { return r.GrossRevenue }},
		{"Total costs", func(r domain.TaxResult) decimal.Decimal { return r.TotalCosts }},
		{"Taxable income", func(r domain.TaxResult) decimal.Decimal { return r.TaxableIncome }},
		{"Income tax", func(r domain.TaxResult) decimal.Decimal { return r.IncomeTax }},
		{"Health insurance", func(r domain.TaxResult) decimal.Decimal { return r.HealthInsurance }},
		{"Social insurance", func(r domain.TaxResult) decimal.Decimal { return r.ZUSTotal }},
		{"Car depreciation", func(r domain.TaxResult) decimal.Decimal { return r.Breakdown.CarDepreciationDeduction }},
		{"Equipment depreciation", func(r domain.TaxResult) decimal.Decimal { return r.Breakdown.EquipmentDepreciationDeduction }},
		{"VAT benefit", func(r domain.TaxResult) decimal.Decimal { return r.Breakdown.VATBenefit }},
		{"Net cash in hand", func(r domain.TaxResult) decimal.Decimal { return r.NetCashInHand }},
	}

	results := result.Results()
	fmt.Fprintf(&buf, "%-24s", "")
	for _, r := range results {
		fmt.Fprintf(&buf, "%20s", formLabels[r.TaxationForm])
	}
	fmt.Fprintln(&buf)

	for _, row := range rows {
		fmt.Fprintf(&buf, "%-24s", row.label)
		for _, r := range results {
			fmt.Fprintf(&buf, "%20s", money.FromDecimal(row.pick(r)).Format())
		}
		fmt.Fprintln(&buf)
	}

	best := result.Best()
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Best outcome: %s (%s net)\n", formLabels[best.TaxationForm], money.FromDecimal(best.NetCashInHand).Format())

	return buf.Bytes(), nil
}
