package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/pitgo/regime-calculator/internal/domain"
)

// ScenarioFile is the on-disk shape consumed by the CLI: the scenario input
// plus the fiscal year selecting which rate table applies.
type ScenarioFile struct {
	TaxYear  int             `yaml:"tax_year"`
	Scenario domain.Scenario `yaml:"scenario"`
}

// InputParser handles parsing of scenario input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadScenario loads a scenario from a YAML file and attaches the rate table
// for its fiscal year. The scenario comes back fully validated and ready for
// the engine.
func (ip *InputParser) LoadScenario(filename string, rateConfigs []domain.RateConfig) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	year := file.TaxYear
	if year == 0 {
		year = DefaultRateYear
	}
	rates, err := RatesForYear(rateConfigs, year)
	if err != nil {
		return nil, err
	}

	scenario := file.Scenario
	scenario.Rates = rates
	ApplyScenarioDefaults(&scenario)

	if err := ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &scenario, nil
}

// ApplyScenarioDefaults fills the fields a caller may legitimately omit: the
// VAT-recoverable fraction defaults to full recovery for VAT payers and an
// unset contribution class means the standard one.
func ApplyScenarioDefaults(scenario *domain.Scenario) {
	if scenario.VATPayer && scenario.VATRecoverableFraction.IsZero() {
		scenario.VATRecoverableFraction = decimal.NewFromInt(1)
	}
	if scenario.ContributionClass == "" {
		scenario.ContributionClass = domain.ClassStandard
	}
}

// ValidateScenario checks a scenario before it reaches the engine. The
// engine itself assumes pre-validated input, so everything user-supplied is
// rejected here.
func ValidateScenario(scenario *domain.Scenario) error {
	if scenario.YearlyRevenueNet.IsNegative() {
		return fmt.Errorf("yearly revenue cannot be negative")
	}
	if scenario.YearlyFixedCosts.IsNegative() {
		return fmt.Errorf("yearly fixed costs cannot be negative")
	}
	if !scenario.ContributionClass.Valid() {
		return fmt.Errorf("unknown contribution class %q", scenario.ContributionClass)
	}
	if scenario.CustomContributionBase != nil && scenario.CustomContributionBase.IsNegative() {
		return fmt.Errorf("custom contribution base cannot be negative")
	}
	if scenario.VATRecoverableFraction.IsNegative() || scenario.VATRecoverableFraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("vat recoverable fraction must be between 0 and 1")
	}
	if scenario.LumpSumFlatRate.IsNegative() || scenario.LumpSumFlatRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("lump sum flat rate must be between 0 and 1")
	}

	for i := range scenario.Investments {
		if err := ValidateInvestment(&scenario.Investments[i]); err != nil {
			return fmt.Errorf("investment %d: %w", i, err)
		}
	}
	return nil
}

// ValidateInvestment checks a single investment record.
func ValidateInvestment(inv *domain.Investment) error {
	switch inv.Type {
	case domain.InvestmentEquipment, domain.InvestmentCarCash, domain.InvestmentCarLeasing:
	default:
		return fmt.Errorf("unknown investment type %q", inv.Type)
	}
	if inv.Cost.IsNegative() {
		return fmt.Errorf("cost cannot be negative")
	}
	if inv.PurchaseMonth < 1 || inv.PurchaseMonth > 12 {
		return fmt.Errorf("purchase month must be between 1 and 12")
	}

	if !inv.IsVehicle() {
		return nil
	}

	switch inv.EngineClass {
	case domain.EngineCombustion, domain.EnginePlugInHybrid, domain.EngineElectric:
	default:
		return fmt.Errorf("unknown engine class %q", inv.EngineClass)
	}
	switch inv.Usage {
	case domain.UsageMixed, domain.UsageFullBusiness:
	default:
		return fmt.Errorf("unknown usage %q", inv.Usage)
	}

	if inv.Type == domain.InvestmentCarLeasing {
		if inv.Financing != domain.FinancingLease {
			return fmt.Errorf("car_leasing investment must use lease financing")
		}
		if inv.DownPaymentFraction == nil || inv.LeaseTermMonths == nil || inv.BuyoutFraction == nil {
			return fmt.Errorf("lease parameters (down payment, term, buyout) are required")
		}
		if *inv.LeaseTermMonths < 1 {
			return fmt.Errorf("lease term must be at least one month")
		}
		one := decimal.NewFromInt(1)
		if inv.DownPaymentFraction.IsNegative() || inv.DownPaymentFraction.GreaterThan(one) {
			return fmt.Errorf("down payment fraction must be between 0 and 1")
		}
		if inv.BuyoutFraction.IsNegative() || inv.BuyoutFraction.GreaterThan(one) {
			return fmt.Errorf("buyout fraction must be between 0 and 1")
		}
	} else if inv.Financing == domain.FinancingLease {
		return fmt.Errorf("cash investment cannot use lease financing")
	}
	return nil
}

// ExampleScenarioFile produces a ready-to-edit input file for a typical IT
// sole proprietorship.
func (ip *InputParser) ExampleScenarioFile() *ScenarioFile {
	downPayment := decimal.NewFromFloat(0.10)
	buyout := decimal.NewFromFloat(0.01)
	term := 36

	return &ScenarioFile{
		TaxYear: DefaultRateYear,
		Scenario: domain.Scenario{
			YearlyRevenueNet:       decimal.NewFromInt(180000),
			YearlyFixedCosts:       decimal.NewFromInt(36000),
			VATPayer:               true,
			VATRecoverableFraction: decimal.NewFromInt(1),
			ContributionClass:      domain.ClassSmallFlexible,
			SicknessOptIn:          false,
			LumpSumFlatRate:        decimal.NewFromFloat(0.12),
			Investments: []domain.Investment{
				{
					Type:          domain.InvestmentCarLeasing,
					Name:          "company car",
					Cost:          decimal.NewFromInt(150000),
					PurchaseMonth: 3,
					EngineClass:   domain.EnginePlugInHybrid,
					Financing:     domain.FinancingLease,
					Usage:         domain.UsageMixed,

					DownPaymentFraction: &downPayment,
					LeaseTermMonths:     &term,
					BuyoutFraction:      &buyout,
				},
				{
					Type:          domain.InvestmentEquipment,
					Name:          "workstation",
					Cost:          decimal.NewFromInt(12000),
					PurchaseMonth: 1,
				},
			},
		},
	}
}
