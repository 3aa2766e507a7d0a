package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRatesValidate(t *testing.T) {
	require.NoError(t, DefaultRates().Validate())
}

func TestRateTableValidateRejectsBadTables(t *testing.T) {
	missingOpenBracket := DefaultRates()
	missingOpenBracket.IncomeTaxBrackets = []TaxBracket{{UpTo: 300000, Rate: 0}}
	assert.Error(t, missingOpenBracket.Validate())

	emptyBrackets := DefaultRates()
	emptyBrackets.IncomeTaxBrackets = nil
	assert.Error(t, emptyBrackets.Validate())

	emptySlabs := DefaultRates()
	emptySlabs.ProfessionalTaxSlabs = nil
	assert.Error(t, emptySlabs.Validate())

	badPFRate := DefaultRates()
	badPFRate.PFRate = 1.2
	assert.Error(t, badPFRate.Validate())
}

func TestAnnualIncomeTax(t *testing.T) {
	rates := DefaultRates()
	cases := []struct {
		name    string
		taxable float64
		want    float64
	}{
		{"zero income", 0, 0},
		{"within zero bracket", 250000, 0},
		{"rebate wipes low income tax", 650000, 0},
		{"rebate limit is inclusive", 700000, 0},
		{"just past the rebate limit", 750000, 26000},
		{"mid schedule", 1150000, 75400},
		{"top bracket", 2000000, 301600},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, rates.AnnualIncomeTax(tc.taxable), 0.01)
		})
	}
}

func TestAnnualIncomeTaxRebateCap(t *testing.T) {
	rates := DefaultRates()
	rates.RebateIncomeLimit = 2000000

	// Tax on 1150000 is 72500 before cess; the rebate only removes 25000.
	assert.InDelta(t, (72500.0-25000.0)*1.04, rates.AnnualIncomeTax(1150000), 0.01)
}
