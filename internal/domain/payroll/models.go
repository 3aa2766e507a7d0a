package payroll

import (
	"fmt"
	"time"

	"managertc/internal/domain/attendance"
)

// Period identifies one pay month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, p.Month)
	}
	if p.Year < 2000 || p.Year > 2200 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// Earnings holds the named earning lines of one pay period. All amounts are
// non-negative rupees.
type Earnings struct {
	Basic             float64 `json:"basic"`
	HRA               float64 `json:"hra"`
	DearnessAllowance float64 `json:"dearnessAllowance"`
	Conveyance        float64 `json:"conveyance"`
	Medical           float64 `json:"medical"`
	SpecialAllowance  float64 `json:"specialAllowance"`
	OtherAllowances   float64 `json:"otherAllowances"`
	Overtime          float64 `json:"overtime"`
	Bonus             float64 `json:"bonus"`
	Incentive         float64 `json:"incentive"`
	Arrears           float64 `json:"arrears"`
	Commission        float64 `json:"commission"`
}

// Sum is the gross salary. Totals are always recomputed from the lines,
// never carried separately.
func (e Earnings) Sum() float64 {
	return e.Basic + e.HRA + e.DearnessAllowance + e.Conveyance + e.Medical +
		e.SpecialAllowance + e.OtherAllowances + e.Overtime + e.Bonus +
		e.Incentive + e.Arrears + e.Commission
}

// Deductions holds the named deduction lines of one pay period.
type Deductions struct {
	ProfessionalTax float64 `json:"professionalTax"`
	IncomeTax       float64 `json:"incomeTax"`
	ProvidentFund   float64 `json:"providentFund"`
	StateInsurance  float64 `json:"stateInsurance"`
	Loan            float64 `json:"loan"`
	Advance         float64 `json:"advance"`
	LatePenalty     float64 `json:"latePenalty"`
	Other           float64 `json:"other"`
}

func (d Deductions) Sum() float64 {
	return d.ProfessionalTax + d.IncomeTax + d.ProvidentFund + d.StateInsurance +
		d.Loan + d.Advance + d.LatePenalty + d.Other
}

// Record is one employee's payroll for one (tenant, employee, month, year).
// That tuple is unique in the store; regeneration overwrites it in place.
type Record struct {
	ID              string              `json:"id"`
	TenantID        string              `json:"tenantId"`
	EmployeeID      string              `json:"employeeId"`
	Month           int                 `json:"month"`
	Year            int                 `json:"year"`
	Earnings        Earnings            `json:"earnings"`
	Deductions      Deductions          `json:"deductions"`
	GrossSalary     float64             `json:"grossSalary"`
	TotalDeductions float64             `json:"totalDeductions"`
	NetSalary       float64             `json:"netSalary"`
	Attendance      attendance.Summary  `json:"attendanceData"`
	Status          Status              `json:"status"`
	PaymentDate     *time.Time          `json:"paymentDate,omitempty"`
	PaymentMethod   string              `json:"paymentMethod,omitempty"`
	TransactionRef  string              `json:"transactionRef,omitempty"`
	GeneratedBy     string              `json:"generatedBy,omitempty"`
	GeneratedAt     time.Time           `json:"generatedAt"`
	ApprovedBy      string              `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time          `json:"approvedAt,omitempty"`
	RejectedBy      string              `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time          `json:"rejectedAt,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
	PayslipGenerated bool               `json:"payslipGenerated"`
	PayslipURL      string              `json:"payslipUrl,omitempty"`
	PayslipEmailSent bool               `json:"payslipEmailSent"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Computation is the pure output of the salary pipeline for one employee and
// period, before persistence.
type Computation struct {
	EmployeeID      string             `json:"employeeId"`
	Period          Period             `json:"payPeriod"`
	Earnings        Earnings           `json:"earnings"`
	Deductions      Deductions         `json:"deductions"`
	GrossSalary     float64            `json:"grossSalary"`
	TotalDeductions float64            `json:"totalDeductions"`
	NetSalary       float64            `json:"netSalary"`
	Attendance      attendance.Summary `json:"attendanceData"`
}

// BatchItem is the per-employee outcome of a batch operation. Failures are
// reported alongside successes; one bad employee never aborts the batch.
type BatchItem struct {
	Success    bool    `json:"success"`
	EmployeeID string  `json:"employeeId"`
	Record     *Record `json:"record,omitempty"`
	Error      string  `json:"error,omitempty"`
}
