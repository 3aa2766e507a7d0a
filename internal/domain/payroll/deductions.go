package payroll

import (
	"math"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

// ExtraDeductions are discretionary lines supplied by the caller; everything
// here defaults to zero.
type ExtraDeductions struct {
	Loan    float64 `json:"loan"`
	Advance float64 `json:"advance"`
	Other   float64 `json:"other"`
}

// ComputeDeductions derives the statutory and discretionary deductions for a
// computed gross salary.
//
// Provident fund contributes 12% of basic capped at the PF wage ceiling.
// State insurance applies only while gross stays at or under the ESI ceiling;
// one rupee over and the contribution is zero, not clamped. Professional tax
// is a flat slab over the profile's basic+HRA+allowances. Income tax
// annualizes the gross, takes the standard deduction, runs the progressive
// schedule with rebate and cess, and carries one twelfth per month.
func ComputeDeductions(profile employee.Profile, gross float64, summary attendance.Summary, rates RateTable, extra ExtraDeductions) Deductions {
	deductions := Deductions{
		ProvidentFund: math.Round(rates.PFRate * math.Min(profile.BasicSalary, rates.PFWageCap)),
		Loan:          extra.Loan,
		Advance:       extra.Advance,
		Other:         extra.Other,
	}

	if gross <= rates.ESIGrossCeiling {
		deductions.StateInsurance = roundPaise(rates.ESIRate * gross)
	}

	deductions.ProfessionalTax = rates.ProfessionalTax(profile.BasicSalary + profile.HRA + profile.Allowances)
	deductions.IncomeTax = monthlyIncomeTax(gross, rates)
	deductions.LatePenalty = latePenalty(summary.LateDays, rates)

	return deductions
}

func monthlyIncomeTax(monthlyGross float64, rates RateTable) float64 {
	taxable := monthlyGross*12 - rates.StandardDeduction
	annual := rates.AnnualIncomeTax(taxable)
	return math.Round(annual / 12)
}

// latePenalty charges only the days past the grace threshold.
func latePenalty(lateDays int, rates RateTable) float64 {
	if lateDays <= rates.LateGraceDays {
		return 0
	}
	return float64(lateDays-rates.LateGraceDays) * rates.LatePenaltyPerDay
}

func roundPaise(amount float64) float64 {
	return math.Round(amount*100) / 100
}
