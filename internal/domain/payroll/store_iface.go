package payroll

import (
	"context"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

// EmployeeSource supplies compensation profiles. Implemented by the employee
// store; swapped for doubles in tests.
type EmployeeSource interface {
	FindByID(ctx context.Context, tenantID, employeeID string) (employee.Profile, error)
	ListPayable(ctx context.Context, tenantID string) ([]employee.Profile, error)
}

// AttendanceSource supplies the aggregated month summary for one employee.
type AttendanceSource interface {
	SummaryForPeriod(ctx context.Context, tenantID, employeeID string, month, year int) (attendance.Summary, error)
}

// RecordStore persists payroll records keyed by (tenant, employee, month,
// year). Upsert must be a single atomic conditional write: concurrent
// regeneration for the same key converges on one record.
type RecordStore interface {
	Upsert(ctx context.Context, record Record) (Record, error)
	FindByKey(ctx context.Context, tenantID, employeeID string, month, year int) (Record, error)
	FindByCompanyAndPeriod(ctx context.Context, tenantID string, month, year int, statusIn []Status) ([]Record, error)
	SetPayslip(ctx context.Context, tenantID, recordID, payslipURL string) error
	MarkPayslipEmailed(ctx context.Context, tenantID, recordID string) error
}
