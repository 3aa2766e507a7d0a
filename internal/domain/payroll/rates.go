package payroll

import (
	"fmt"
	"math"
	"sort"
)

// TaxSlab maps an income base up to UpTo (inclusive) to a flat monthly Amount.
// A zero UpTo marks the open-ended top slab.
type TaxSlab struct {
	UpTo   float64 `json:"upTo"`
	Amount float64 `json:"amount"`
}

// TaxBracket is one band of the progressive income-tax schedule. Income
// between the previous bracket's UpTo and this one is taxed at Rate. A zero
// UpTo marks the open-ended top bracket.
type TaxBracket struct {
	UpTo float64 `json:"upTo"`
	Rate float64 `json:"rate"`
}

// RateTable is the statutory parameter set for one effective year. The values
// are data, not code: a future fiscal year ships as a new table, not a new
// build.
type RateTable struct {
	EffectiveYear int `json:"effectiveYear"`

	PFRate    float64 `json:"pfRate"`
	PFWageCap float64 `json:"pfWageCap"`

	ESIRate         float64 `json:"esiRate"`
	ESIGrossCeiling float64 `json:"esiGrossCeiling"`

	ProfessionalTaxSlabs []TaxSlab `json:"professionalTaxSlabs"`

	StandardDeduction float64      `json:"standardDeduction"`
	IncomeTaxBrackets []TaxBracket `json:"incomeTaxBrackets"`
	RebateIncomeLimit float64      `json:"rebateIncomeLimit"`
	RebateMax         float64      `json:"rebateMax"`
	CessRate          float64      `json:"cessRate"`

	LateGraceDays     int     `json:"lateGraceDays"`
	LatePenaltyPerDay float64 `json:"latePenaltyPerDay"`
}

// DefaultRates is the FY 2024-25 new-regime snapshot the product shipped
// with. Callers wanting another year supply their own table.
func DefaultRates() RateTable {
	return RateTable{
		EffectiveYear:   2024,
		PFRate:          0.12,
		PFWageCap:       15000,
		ESIRate:         0.0075,
		ESIGrossCeiling: 21000,
		ProfessionalTaxSlabs: []TaxSlab{
			{UpTo: 15000, Amount: 0},
			{UpTo: 20000, Amount: 150},
			{UpTo: 0, Amount: 200},
		},
		StandardDeduction: 50000,
		IncomeTaxBrackets: []TaxBracket{
			{UpTo: 300000, Rate: 0},
			{UpTo: 700000, Rate: 0.05},
			{UpTo: 1000000, Rate: 0.10},
			{UpTo: 1200000, Rate: 0.15},
			{UpTo: 1500000, Rate: 0.20},
			{UpTo: 0, Rate: 0.30},
		},
		RebateIncomeLimit: 700000,
		RebateMax:         25000,
		CessRate:          0.04,
		LateGraceDays:     3,
		LatePenaltyPerDay: 200,
	}
}

func (t RateTable) Validate() error {
	if t.PFRate < 0 || t.PFRate > 1 {
		return fmt.Errorf("pf rate %v out of range", t.PFRate)
	}
	if t.ESIRate < 0 || t.ESIRate > 1 {
		return fmt.Errorf("esi rate %v out of range", t.ESIRate)
	}
	if len(t.IncomeTaxBrackets) == 0 {
		return fmt.Errorf("income tax brackets are empty")
	}
	if !sort.SliceIsSorted(t.IncomeTaxBrackets[:len(t.IncomeTaxBrackets)-1], func(i, j int) bool {
		return t.IncomeTaxBrackets[i].UpTo < t.IncomeTaxBrackets[j].UpTo
	}) {
		return fmt.Errorf("income tax brackets are not ascending")
	}
	if t.IncomeTaxBrackets[len(t.IncomeTaxBrackets)-1].UpTo != 0 {
		return fmt.Errorf("income tax brackets must end with an open bracket")
	}
	if len(t.ProfessionalTaxSlabs) == 0 {
		return fmt.Errorf("professional tax slabs are empty")
	}
	if t.ProfessionalTaxSlabs[len(t.ProfessionalTaxSlabs)-1].UpTo != 0 {
		return fmt.Errorf("professional tax slabs must end with an open slab")
	}
	return nil
}

// ProfessionalTax resolves the flat monthly slab amount for an income base.
// Slab bounds are inclusive.
func (t RateTable) ProfessionalTax(base float64) float64 {
	for _, slab := range t.ProfessionalTaxSlabs {
		if slab.UpTo == 0 || base <= slab.UpTo {
			return slab.Amount
		}
	}
	return 0
}

// AnnualIncomeTax runs taxable income through the progressive schedule,
// applies the low-income rebate and health-and-education cess.
func (t RateTable) AnnualIncomeTax(taxable float64) float64 {
	if taxable <= 0 {
		return 0
	}
	var tax, lower float64
	for _, bracket := range t.IncomeTaxBrackets {
		upper := bracket.UpTo
		if upper == 0 || taxable < upper {
			upper = taxable
		}
		if upper > lower {
			tax += (upper - lower) * bracket.Rate
		}
		if bracket.UpTo == 0 || taxable <= bracket.UpTo {
			break
		}
		lower = bracket.UpTo
	}
	if taxable <= t.RebateIncomeLimit {
		tax -= math.Min(tax, t.RebateMax)
	}
	return tax * (1 + t.CessRate)
}
