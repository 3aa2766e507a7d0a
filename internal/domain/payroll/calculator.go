package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

// Calculator composes attendance aggregation, earnings and deductions into
// net-salary computations and persists them idempotently. It holds no mutable
// state; every dependency arrives through the constructor.
type Calculator struct {
	employees  EmployeeSource
	attendance AttendanceSource
	records    RecordStore
	rates      RateTable
}

func NewCalculator(employees EmployeeSource, attendanceSource AttendanceSource, records RecordStore, rates RateTable) *Calculator {
	return &Calculator{
		employees:  employees,
		attendance: attendanceSource,
		records:    records,
		rates:      rates,
	}
}

// ComputeForEmployee runs the three-stage pipeline for one employee without
// touching the store. Attendance must resolve before earnings (proration) and
// earnings before deductions (ESI ceiling and tax slabs read the gross).
// A nil override means attendance is loaded from the source; an all-zero
// summary from a month with no entries is valid input, not an error.
func (c *Calculator) ComputeForEmployee(ctx context.Context, profile employee.Profile, period Period, override *attendance.Summary) (Computation, error) {
	if err := period.Validate(); err != nil {
		return Computation{}, err
	}
	if profile.BasicSalary <= 0 {
		return Computation{}, fmt.Errorf("%w: employee %s", ErrMissingBasic, profile.ID)
	}

	var summary attendance.Summary
	if override != nil {
		summary = *override
	} else {
		var err error
		summary, err = c.attendance.SummaryForPeriod(ctx, profile.TenantID, profile.ID, period.Month, period.Year)
		if err != nil {
			return Computation{}, fmt.Errorf("load attendance for %s: %w", profile.ID, err)
		}
	}

	earnings := ComputeEarnings(profile, period, summary, ExtraEarnings{})
	gross := earnings.Sum()
	deductions := ComputeDeductions(profile, gross, summary, c.rates, ExtraDeductions{})
	totalDeductions := deductions.Sum()

	return Computation{
		EmployeeID:      profile.ID,
		Period:          period,
		Earnings:        earnings,
		Deductions:      deductions,
		GrossSalary:     gross,
		TotalDeductions: totalDeductions,
		NetSalary:       math.Max(0, gross-totalDeductions),
		Attendance:      summary,
	}, nil
}

// GenerateForCompany computes and upserts a Generated record for every
// payable employee of the tenant. Employees are processed sequentially; a
// failure for one is reported in its batch item and the run continues.
// Only a failure to list employees at all aborts the batch.
func (c *Calculator) GenerateForCompany(ctx context.Context, tenantID string, period Period, actor string) ([]BatchItem, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	profiles, err := c.employees.ListPayable(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list payable employees: %w", err)
	}

	items := make([]BatchItem, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, c.generateOne(ctx, profile, period, actor))
	}
	return items, nil
}

// CalculateBatch is GenerateForCompany for an explicit employee id list, with
// the same per-item partial-failure contract.
func (c *Calculator) CalculateBatch(ctx context.Context, tenantID string, employeeIDs []string, period Period, actor string) ([]BatchItem, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	items := make([]BatchItem, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		profile, err := c.employees.FindByID(ctx, tenantID, employeeID)
		if err != nil {
			items = append(items, BatchItem{EmployeeID: employeeID, Error: err.Error()})
			continue
		}
		items = append(items, c.generateOne(ctx, profile, period, actor))
	}
	return items, nil
}

func (c *Calculator) generateOne(ctx context.Context, profile employee.Profile, period Period, actor string) BatchItem {
	computation, err := c.ComputeForEmployee(ctx, profile, period, nil)
	if err != nil {
		slog.Warn("payroll computation failed",
			"tenantId", profile.TenantID, "employeeId", profile.ID,
			"month", period.Month, "year", period.Year, "err", err)
		return BatchItem{EmployeeID: profile.ID, Error: err.Error()}
	}

	stored, err := c.records.Upsert(ctx, Record{
		TenantID:        profile.TenantID,
		EmployeeID:      profile.ID,
		Month:           period.Month,
		Year:            period.Year,
		Earnings:        computation.Earnings,
		Deductions:      computation.Deductions,
		GrossSalary:     computation.GrossSalary,
		TotalDeductions: computation.TotalDeductions,
		NetSalary:       computation.NetSalary,
		Attendance:      computation.Attendance,
		Status:          StatusGenerated,
		GeneratedBy:     actor,
		GeneratedAt:     time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("payroll upsert failed",
			"tenantId", profile.TenantID, "employeeId", profile.ID,
			"month", period.Month, "year", period.Year, "err", err)
		return BatchItem{EmployeeID: profile.ID, Error: err.Error()}
	}

	return BatchItem{Success: true, EmployeeID: profile.ID, Record: &stored}
}
