package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateConfigsCoverSeededYears(t *testing.T) {
	configs := DefaultRateConfigs()
	require.Len(t, configs, 4)

	years := map[int]bool{}
	for _, rc := range configs {
		years[rc.Year] = true
		require.NoError(t, validateRateConfig(&rc), "year %d", rc.Year)
	}
	for _, y := range []int{2025, 2026, 2027, 2028} {
		assert.True(t, years[y], "missing seeded year %d", y)
	}
}

func TestRatesForYear(t *testing.T) {
	configs := DefaultRateConfigs()

	rc, err := RatesForYear(configs, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, rc.Year)
	assert.Equal(t, "4806", rc.MinimumWage.String())

	_, err = RatesForYear(configs, 1999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration not found")
}

func TestLoadRateConfigs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")

	content := `rate_configs:
  - year: 2030
    minimum_wage: 5500
    average_wage_prognosis: 11000
    average_wage_prior_q4: 10500
    retirement_rate: 0.1952
    disability_rate: 0.08
    accident_rate: 0.0167
    sickness_rate: 0.0245
    labor_fund_rate: 0.01
    solidarity_fund_rate: 0.0145
    health_rate_scale: 0.09
    health_rate_linear: 0.049
    health_reference_rate: 0.09
    linear_health_deduction_cap: 15000
    lump_sum_health_tier1_bound: 60000
    lump_sum_health_tier2_bound: 300000
    lump_sum_health_tier1_multiplier: 0.6
    lump_sum_health_tier2_multiplier: 1.0
    lump_sum_health_tier3_multiplier: 1.8
    preferential_base_factor: 0.30
    standard_base_factor: 0.60
    linear_tax_rate: 0.19
    scale_tax_free_allowance: 30000
    scale_bracket_threshold: 120000
    scale_lower_rate: 0.12
    scale_upper_rate: 0.32
    default_lump_sum_flat_rate: 0.12
    vat_rate: 0.23
    vehicle_depreciation_rate: 0.20
    equipment_depreciation_rate: 0.30
    lease_annual_interest_rate: 0.05
    mixed_use_vat_fraction: 0.50
    ceiling_combustion: 100000
    ceiling_plug_in_hybrid: 150000
    ceiling_electric: 225000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configs, err := LoadRateConfigs(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, 2030, configs[0].Year)
	assert.Equal(t, "5500", configs[0].MinimumWage.String())
}

func TestLoadRateConfigsRejectsBadData(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"empty list", "rate_configs: []\n"},
		{"negative rate", `rate_configs:
  - year: 2030
    minimum_wage: 5500
    average_wage_prognosis: 11000
    average_wage_prior_q4: 10500
    retirement_rate: -0.1
    ceiling_combustion: 100000
    ceiling_plug_in_hybrid: 150000
    ceiling_electric: 225000
`},
		{"missing minimum wage", `rate_configs:
  - year: 2030
    average_wage_prognosis: 11000
    average_wage_prior_q4: 10500
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadRateConfigs(path)
			require.Error(t, err)
		})
	}
}

func TestLoadRateConfigsMissingFile(t *testing.T) {
	_, err := LoadRateConfigs("does-not-exist.yaml")
	require.Error(t, err)
}
