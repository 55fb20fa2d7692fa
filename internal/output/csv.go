package output

import (
	"bytes"
	"encoding/csv"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// CSVFormatter writes one row per regime for spreadsheet import.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"TaxationForm", "GrossRevenue", "TotalCosts", "TaxableIncome", "IncomeTax", "HealthInsurance", "ZUSTotal", "CarDepreciation", "EquipmentDepreciation", "VATBenefit", "NetCashInHand"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range result.Results() {
		row := []string{
			string(r.TaxationForm),
			r.GrossRevenue.StringFixed(2),
			r.TotalCosts.StringFixed(2),
			r.TaxableIncome.StringFixed(2),
			r.IncomeTax.StringFixed(2),
			r.HealthInsurance.StringFixed(2),
			r.ZUSTotal.StringFixed(2),
			r.Breakdown.CarDepreciationDeduction.StringFixed(2),
			r.Breakdown.EquipmentDepreciationDeduction.StringFixed(2),
			r.Breakdown.VATBenefit.StringFixed(2),
			r.NetCashInHand.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
