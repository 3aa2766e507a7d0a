package payroll

import (
	"math"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

// ExtraEarnings are period-specific lines supplied by the caller; everything
// here defaults to zero.
type ExtraEarnings struct {
	DearnessAllowance float64 `json:"dearnessAllowance"`
	SpecialAllowance  float64 `json:"specialAllowance"`
	Incentive         float64 `json:"incentive"`
	Arrears           float64 `json:"arrears"`
	Commission        float64 `json:"commission"`
}

// WorkedDays derives the proration basis from an attendance summary: present
// days plus paid leave, capped at the full-month baseline.
func WorkedDays(summary attendance.Summary) float64 {
	worked := summary.PresentDays + summary.PaidLeaveDays
	if worked > WorkingDaysPerMonth {
		return WorkingDaysPerMonth
	}
	return worked
}

// ComputeEarnings derives the earnings breakdown for one employee and period.
//
// Basic and HRA come verbatim from the compensation profile. The pooled
// allowance figure splits 10/5/85 into conveyance, medical and other
// allowances. Overtime pays hours at 1.5x the derived hourly rate. Bonus,
// when the profile is eligible, is one month's basic scaled by years of
// service clamped at one.
//
// When fewer than 22 days were worked, every line except arrears, bonus and
// incentive scales by workedDays/22, rounded to the nearest rupee. Those
// three lines are fixed, period-independent obligations.
func ComputeEarnings(profile employee.Profile, period Period, summary attendance.Summary, extra ExtraEarnings) Earnings {
	earnings := Earnings{
		Basic:             profile.BasicSalary,
		HRA:               profile.HRA,
		DearnessAllowance: extra.DearnessAllowance,
		Conveyance:        profile.Allowances * ConveyanceShare,
		Medical:           profile.Allowances * MedicalShare,
		SpecialAllowance:  extra.SpecialAllowance,
		OtherAllowances:   profile.Allowances * OtherShare,
		Overtime:          overtimePay(profile.BasicSalary, summary.OvertimeHours),
		Incentive:         extra.Incentive,
		Arrears:           extra.Arrears,
		Commission:        extra.Commission,
	}

	if profile.BonusEligible {
		earnings.Bonus = serviceBonus(profile, period)
	}

	workedDays := WorkedDays(summary)
	if workedDays < WorkingDaysPerMonth {
		factor := workedDays / WorkingDaysPerMonth
		earnings.Basic = math.Round(earnings.Basic * factor)
		earnings.HRA = math.Round(earnings.HRA * factor)
		earnings.DearnessAllowance = math.Round(earnings.DearnessAllowance * factor)
		earnings.Conveyance = math.Round(earnings.Conveyance * factor)
		earnings.Medical = math.Round(earnings.Medical * factor)
		earnings.SpecialAllowance = math.Round(earnings.SpecialAllowance * factor)
		earnings.OtherAllowances = math.Round(earnings.OtherAllowances * factor)
		earnings.Overtime = math.Round(earnings.Overtime * factor)
		earnings.Commission = math.Round(earnings.Commission * factor)
	}

	return earnings
}

func overtimePay(basic, overtimeHours float64) float64 {
	if overtimeHours <= 0 || basic <= 0 {
		return 0
	}
	hourlyRate := basic / (WorkingDaysPerMonth * WorkHoursPerDay)
	return overtimeHours * hourlyRate * OvertimeMultiplier
}

// serviceBonus caps at one month's basic: a full year of service earns the
// whole month, shorter tenure earns the proportional fraction.
func serviceBonus(profile employee.Profile, period Period) float64 {
	_, periodEnd := attendance.PeriodBounds(period.Month, period.Year)
	years := float64(profile.MonthsOfService(periodEnd)) / 12
	if years > 1 {
		years = 1
	}
	return math.Round(profile.BasicSalary * years)
}
