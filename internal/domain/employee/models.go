package employee

import "time"

const (
	StatusActive    = "Active"
	StatusProbation = "Probation"
	StatusInactive  = "Inactive"
)

// Profile is the compensation view of an employee consumed by the payroll
// pipeline. Monetary fields are monthly amounts in rupees.
type Profile struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	EmployeeCode  string    `json:"employeeCode"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Designation   string    `json:"designation"`
	Department    string    `json:"department"`
	Status        string    `json:"status"`
	JoiningDate   time.Time `json:"joiningDate"`
	BasicSalary   float64   `json:"basicSalary"`
	HRA           float64   `json:"hra"`
	Allowances    float64   `json:"allowances"`
	BonusEligible bool      `json:"bonusEligible"`
	BankName      string    `json:"bankName"`
	BankAccount   string    `json:"bankAccount"`
	PaymentMethod string    `json:"paymentMethod"`
}

func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// MonthsOfService counts whole months between the joining date and the given
// reference date, never negative.
func (p Profile) MonthsOfService(at time.Time) int {
	if p.JoiningDate.IsZero() || at.Before(p.JoiningDate) {
		return 0
	}
	months := (at.Year()-p.JoiningDate.Year())*12 + int(at.Month()) - int(p.JoiningDate.Month())
	if at.Day() < p.JoiningDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
