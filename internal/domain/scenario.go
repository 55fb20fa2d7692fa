package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ContributionClass selects the social-insurance contribution base formula.
type ContributionClass string

const (
	ClassStartRelief   ContributionClass = "start_relief"
	ClassPreferential  ContributionClass = "preferential"
	ClassSmallFlexible ContributionClass = "small_flexible"
	ClassStandard      ContributionClass = "standard"
)

// Valid reports whether the class is one of the four statutory categories.
func (c ContributionClass) Valid() bool {
	switch c {
	case ClassStartRelief, ClassPreferential, ClassSmallFlexible, ClassStandard:
		return true
	}
	return false
}

// TaxationForm identifies one of the three regimes under comparison.
type TaxationForm string

const (
	FormLumpSum     TaxationForm = "ryczalt"
	FormLinear      TaxationForm = "liniowy"
	FormProgressive TaxationForm = "skala"
)

// EngineClass determines a vehicle's annual deduction ceiling.
type EngineClass string

const (
	EngineCombustion   EngineClass = "combustion"
	EnginePlugInHybrid EngineClass = "plug_in_hybrid"
	EngineElectric     EngineClass = "electric"
)

// Financing is how a vehicle purchase is funded.
type Financing string

const (
	FinancingCash  Financing = "cash"
	FinancingLease Financing = "lease"
)

// Usage determines the VAT-recoverable share for a vehicle.
type Usage string

const (
	UsageMixed        Usage = "mixed"
	UsageFullBusiness Usage = "full_business"
)

// InvestmentType is the discriminator tag persisted with each investment.
type InvestmentType string

const (
	InvestmentEquipment  InvestmentType = "equipment"
	InvestmentCarCash    InvestmentType = "car_cash"
	InvestmentCarLeasing InvestmentType = "car_leasing"
)

// Investment is a planned capital purchase: either equipment or a vehicle.
// Vehicle-only fields are ignored for equipment; lease-only fields are
// required when Financing is lease and ignored otherwise.
type Investment struct {
	Type          InvestmentType  `yaml:"type" json:"type"`
	Name          string          `yaml:"name,omitempty" json:"name,omitempty"`
	Cost          decimal.Decimal `yaml:"cost" json:"cost"`
	PurchaseMonth int             `yaml:"purchase_month" json:"purchaseMonth"`

	// Vehicle fields.
	EngineClass EngineClass `yaml:"engine_class,omitempty" json:"engineClass,omitempty"`
	Financing   Financing   `yaml:"financing,omitempty" json:"financing,omitempty"`
	Usage       Usage       `yaml:"usage,omitempty" json:"usage,omitempty"`

	// Lease fields, present only when Financing is lease.
	DownPaymentFraction *decimal.Decimal `yaml:"down_payment_fraction,omitempty" json:"downPaymentFraction,omitempty"`
	LeaseTermMonths     *int             `yaml:"lease_term_months,omitempty" json:"leaseTermMonths,omitempty"`
	BuyoutFraction      *decimal.Decimal `yaml:"buyout_fraction,omitempty" json:"buyoutFraction,omitempty"`
}

// IsVehicle reports whether the investment is a car purchase of either kind.
func (inv *Investment) IsVehicle() bool {
	return inv.Type == InvestmentCarCash || inv.Type == InvestmentCarLeasing
}

// UnmarshalYAML accepts lease fractions written either as numbers or as
// quoted strings, mirroring how other decimal fields are parsed.
func (inv *Investment) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		Type                InvestmentType  `yaml:"type"`
		Name                string          `yaml:"name"`
		Cost                decimal.Decimal `yaml:"cost"`
		PurchaseMonth       int             `yaml:"purchase_month"`
		EngineClass         EngineClass     `yaml:"engine_class"`
		Financing           Financing       `yaml:"financing"`
		Usage               Usage           `yaml:"usage"`
		DownPaymentFraction *string         `yaml:"down_payment_fraction"`
		LeaseTermMonths     *int            `yaml:"lease_term_months"`
		BuyoutFraction      *string         `yaml:"buyout_fraction"`
	}

	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	inv.Type = aux.Type
	inv.Name = aux.Name
	inv.Cost = aux.Cost
	inv.PurchaseMonth = aux.PurchaseMonth
	inv.EngineClass = aux.EngineClass
	inv.Financing = aux.Financing
	inv.Usage = aux.Usage
	inv.LeaseTermMonths = aux.LeaseTermMonths

	if aux.DownPaymentFraction != nil {
		v, err := decimal.NewFromString(*aux.DownPaymentFraction)
		if err != nil {
			return fmt.Errorf("down_payment_fraction: %w", err)
		}
		inv.DownPaymentFraction = &v
	}
	if aux.BuyoutFraction != nil {
		v, err := decimal.NewFromString(*aux.BuyoutFraction)
		if err != nil {
			return fmt.Errorf("buyout_fraction: %w", err)
		}
		inv.BuyoutFraction = &v
	}
	return nil
}

// Scenario is the complete input for one comparison run. It is consumed once
// and must not be mutated after being handed to the engine.
type Scenario struct {
	YearlyRevenueNet decimal.Decimal `yaml:"yearly_revenue_net" json:"yearlyRevenueNetto"`
	YearlyFixedCosts decimal.Decimal `yaml:"yearly_fixed_costs" json:"yearlyFixedCosts"`

	VATPayer               bool            `yaml:"vat_payer" json:"vatPayer"`
	VATRecoverableFraction decimal.Decimal `yaml:"vat_recoverable_fraction" json:"vatRecoverableFraction"`

	ContributionClass      ContributionClass `yaml:"contribution_class" json:"contributionClass"`
	CustomContributionBase *decimal.Decimal  `yaml:"custom_contribution_base,omitempty" json:"customContributionBase,omitempty"`
	SicknessOptIn          bool              `yaml:"sickness_opt_in" json:"sicknessOptIn"`

	// LumpSumFlatRate is the industry-specific revenue tax rate for the
	// lump-sum regime (default: 12% for IT services).
	LumpSumFlatRate decimal.Decimal `yaml:"lump_sum_flat_rate" json:"lumpSumFlatRate"`

	Investments []Investment `yaml:"investments" json:"investments"`

	Rates RateConfig `yaml:"rates" json:"rates"`
}
