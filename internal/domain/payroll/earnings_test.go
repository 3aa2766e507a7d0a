package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

func testProfile() employee.Profile {
	return employee.Profile{
		ID:          "emp-1",
		TenantID:    "tenant-1",
		FirstName:   "Asha",
		BasicSalary: 5000,
		HRA:         2000,
		Allowances:  1000,
		JoiningDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fullMonth() attendance.Summary {
	return attendance.Summary{PresentDays: 22, TotalWorkHours: 176}
}

func TestComputeEarningsFullMonth(t *testing.T) {
	earnings := ComputeEarnings(testProfile(), Period{Month: 9, Year: 2025}, fullMonth(), ExtraEarnings{})

	assert.Equal(t, 5000.0, earnings.Basic)
	assert.Equal(t, 2000.0, earnings.HRA)
	assert.Equal(t, 100.0, earnings.Conveyance, "10 percent of pooled allowances")
	assert.Equal(t, 50.0, earnings.Medical, "5 percent of pooled allowances")
	assert.Equal(t, 850.0, earnings.OtherAllowances, "85 percent of pooled allowances")
	assert.Equal(t, 0.0, earnings.Bonus, "profile is not bonus eligible")
	assert.Equal(t, 8000.0, earnings.Sum())
}

func TestComputeEarningsProratesHalfMonth(t *testing.T) {
	summary := attendance.Summary{PresentDays: 11}
	earnings := ComputeEarnings(testProfile(), Period{Month: 9, Year: 2025}, summary, ExtraEarnings{})

	assert.Equal(t, 2500.0, earnings.Basic)
	assert.Equal(t, 1000.0, earnings.HRA)
	assert.Equal(t, 50.0, earnings.Conveyance)
	assert.Equal(t, 25.0, earnings.Medical)
	assert.Equal(t, 425.0, earnings.OtherAllowances)
	assert.Equal(t, 4000.0, earnings.Sum())
}

func TestComputeEarningsProrationExemptsFixedLines(t *testing.T) {
	profile := testProfile()
	profile.BonusEligible = true
	summary := attendance.Summary{PresentDays: 11}
	extra := ExtraEarnings{Arrears: 1200, Incentive: 700}

	earnings := ComputeEarnings(profile, Period{Month: 9, Year: 2025}, summary, extra)

	assert.Equal(t, 2500.0, earnings.Basic, "basic prorates")
	assert.Equal(t, 1200.0, earnings.Arrears, "arrears stay whole")
	assert.Equal(t, 700.0, earnings.Incentive, "incentive stays whole")
	assert.Equal(t, 5000.0, earnings.Bonus, "bonus stays whole")
}

func TestWorkedDaysCountsPaidLeaveAndCaps(t *testing.T) {
	assert.Equal(t, 20.0, WorkedDays(attendance.Summary{PresentDays: 15, PaidLeaveDays: 5}))
	assert.Equal(t, 22.0, WorkedDays(attendance.Summary{PresentDays: 20, PaidLeaveDays: 5}),
		"worked days never exceed the full-month baseline")
	assert.Equal(t, 0.0, WorkedDays(attendance.Summary{}))
}

func TestComputeEarningsOvertime(t *testing.T) {
	profile := testProfile()
	profile.BasicSalary = 1760 // hourly rate of 10 over 22 days x 8 hours
	summary := fullMonth()
	summary.OvertimeHours = 10

	earnings := ComputeEarnings(profile, Period{Month: 9, Year: 2025}, summary, ExtraEarnings{})
	assert.Equal(t, 150.0, earnings.Overtime, "10 hours at 1.5x the hourly rate")
}

func TestComputeEarningsBonusScalesWithTenure(t *testing.T) {
	period := Period{Month: 9, Year: 2025}

	profile := testProfile()
	profile.BonusEligible = true
	profile.JoiningDate = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	earnings := ComputeEarnings(profile, period, fullMonth(), ExtraEarnings{})
	assert.Equal(t, 2500.0, earnings.Bonus, "six months of service earn half the basic")

	profile.JoiningDate = time.Date(2019, time.April, 1, 0, 0, 0, 0, time.UTC)
	earnings = ComputeEarnings(profile, period, fullMonth(), ExtraEarnings{})
	assert.Equal(t, 5000.0, earnings.Bonus, "tenure past one year caps at one month's basic")
}
