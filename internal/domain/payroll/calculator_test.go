package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"managertc/internal/domain/attendance"
	"managertc/internal/domain/employee"
)

type fakeEmployees struct {
	profiles []employee.Profile
	listErr  error
}

func (f *fakeEmployees) FindByID(_ context.Context, tenantID, employeeID string) (employee.Profile, error) {
	for _, p := range f.profiles {
		if p.TenantID == tenantID && p.ID == employeeID {
			return p, nil
		}
	}
	return employee.Profile{}, fmt.Errorf("employee %s: %w", employeeID, employee.ErrNotFound)
}

func (f *fakeEmployees) ListPayable(_ context.Context, tenantID string) ([]employee.Profile, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []employee.Profile
	for _, p := range f.profiles {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAttendance struct {
	summaries map[string]attendance.Summary
	errs      map[string]error
}

func (f *fakeAttendance) SummaryForPeriod(_ context.Context, _, employeeID string, _, _ int) (attendance.Summary, error) {
	if err := f.errs[employeeID]; err != nil {
		return attendance.Summary{}, err
	}
	return f.summaries[employeeID], nil
}

// fakeRecords mirrors the store's upsert contract: one record per
// (tenant, employee, month, year), regeneration refreshes the computation
// but never resurrects a record that moved past Generated.
type fakeRecords struct {
	records map[string]Record
	upserts int
	nextID  int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]Record)}
}

func recordKey(tenantID, employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%s|%d|%d", tenantID, employeeID, month, year)
}

func (f *fakeRecords) Upsert(_ context.Context, record Record) (Record, error) {
	f.upserts++
	key := recordKey(record.TenantID, record.EmployeeID, record.Month, record.Year)
	if existing, ok := f.records[key]; ok {
		existing.Earnings = record.Earnings
		existing.Deductions = record.Deductions
		existing.GrossSalary = record.GrossSalary
		existing.TotalDeductions = record.TotalDeductions
		existing.NetSalary = record.NetSalary
		existing.Attendance = record.Attendance
		existing.GeneratedBy = record.GeneratedBy
		existing.GeneratedAt = record.GeneratedAt
		if existing.Status == StatusDraft || existing.Status == StatusGenerated {
			existing.Status = record.Status
		}
		existing.UpdatedAt = time.Now().UTC()
		f.records[key] = existing
		return existing, nil
	}
	f.nextID++
	record.ID = fmt.Sprintf("rec-%d", f.nextID)
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	f.records[key] = record
	return record, nil
}

func (f *fakeRecords) FindByKey(_ context.Context, tenantID, employeeID string, month, year int) (Record, error) {
	record, ok := f.records[recordKey(tenantID, employeeID, month, year)]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeRecords) FindByCompanyAndPeriod(_ context.Context, tenantID string, month, year int, statusIn []Status) ([]Record, error) {
	var out []Record
	for _, record := range f.records {
		if record.TenantID != tenantID || record.Month != month || record.Year != year {
			continue
		}
		if len(statusIn) > 0 {
			match := false
			for _, s := range statusIn {
				if record.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeRecords) SetPayslip(_ context.Context, tenantID, recordID, payslipURL string) error {
	for key, record := range f.records {
		if record.TenantID == tenantID && record.ID == recordID {
			record.PayslipGenerated = true
			record.PayslipURL = payslipURL
			f.records[key] = record
			return nil
		}
	}
	return ErrRecordNotFound
}

func (f *fakeRecords) MarkPayslipEmailed(_ context.Context, tenantID, recordID string) error {
	for key, record := range f.records {
		if record.TenantID == tenantID && record.ID == recordID {
			record.PayslipEmailSent = true
			f.records[key] = record
			return nil
		}
	}
	return ErrRecordNotFound
}

func newTestCalculator(employees *fakeEmployees, att *fakeAttendance, records *fakeRecords) *Calculator {
	return NewCalculator(employees, att, records, DefaultRates())
}

func TestComputeForEmployeeWorkedExample(t *testing.T) {
	calculator := newTestCalculator(
		&fakeEmployees{},
		&fakeAttendance{},
		newFakeRecords(),
	)

	summary := fullMonth()
	computation, err := calculator.ComputeForEmployee(context.Background(), testProfile(), Period{Month: 9, Year: 2025}, &summary)
	require.NoError(t, err)

	assert.Equal(t, 8000.0, computation.GrossSalary)
	assert.Equal(t, 660.0, computation.TotalDeductions)
	assert.Equal(t, 7340.0, computation.NetSalary)
	assert.Equal(t, computation.Earnings.Sum(), computation.GrossSalary, "gross is always the sum of its lines")
	assert.Equal(t, computation.Deductions.Sum(), computation.TotalDeductions, "total is always the sum of its lines")
}

func TestComputeForEmployeeEmptyAttendanceIsValid(t *testing.T) {
	calculator := newTestCalculator(
		&fakeEmployees{},
		&fakeAttendance{summaries: map[string]attendance.Summary{}},
		newFakeRecords(),
	)

	computation, err := calculator.ComputeForEmployee(context.Background(), testProfile(), Period{Month: 9, Year: 2025}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, computation.GrossSalary, "no worked days prorates everything to zero")
}

func TestComputeForEmployeeValidation(t *testing.T) {
	calculator := newTestCalculator(&fakeEmployees{}, &fakeAttendance{}, newFakeRecords())
	summary := fullMonth()

	_, err := calculator.ComputeForEmployee(context.Background(), testProfile(), Period{Month: 13, Year: 2025}, &summary)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	profile := testProfile()
	profile.BasicSalary = 0
	_, err = calculator.ComputeForEmployee(context.Background(), profile, Period{Month: 9, Year: 2025}, &summary)
	assert.ErrorIs(t, err, ErrMissingBasic)
}

func TestComputeForEmployeeNetNeverNegative(t *testing.T) {
	calculator := newTestCalculator(&fakeEmployees{}, &fakeAttendance{}, newFakeRecords())

	profile := testProfile()
	profile.BasicSalary = 100
	profile.HRA = 0
	profile.Allowances = 0
	summary := attendance.Summary{PresentDays: 22, LateDays: 25}

	computation, err := calculator.ComputeForEmployee(context.Background(), profile, Period{Month: 9, Year: 2025}, &summary)
	require.NoError(t, err)
	assert.Greater(t, computation.TotalDeductions, computation.GrossSalary)
	assert.Equal(t, 0.0, computation.NetSalary, "net clamps at zero instead of going negative")
}

func TestGenerateForCompanyIdempotent(t *testing.T) {
	profile := testProfile()
	employees := &fakeEmployees{profiles: []employee.Profile{profile}}
	att := &fakeAttendance{summaries: map[string]attendance.Summary{profile.ID: fullMonth()}}
	records := newFakeRecords()
	calculator := newTestCalculator(employees, att, records)

	period := Period{Month: 9, Year: 2025}
	first, err := calculator.GenerateForCompany(context.Background(), profile.TenantID, period, "hr-user")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.True(t, first[0].Success)

	second, err := calculator.GenerateForCompany(context.Background(), profile.TenantID, period, "hr-user")
	require.NoError(t, err)
	require.True(t, second[0].Success)

	assert.Len(t, records.records, 1, "regeneration updates in place, never duplicates")
	assert.Equal(t, 2, records.upserts)
	assert.Equal(t, first[0].Record.ID, second[0].Record.ID)
	assert.Equal(t, first[0].Record.NetSalary, second[0].Record.NetSalary)
}

func TestGenerateForCompanyPartialFailure(t *testing.T) {
	good1 := testProfile()
	bad := testProfile()
	bad.ID = "emp-2"
	bad.BasicSalary = 0
	good2 := testProfile()
	good2.ID = "emp-3"

	employees := &fakeEmployees{profiles: []employee.Profile{good1, bad, good2}}
	att := &fakeAttendance{summaries: map[string]attendance.Summary{
		good1.ID: fullMonth(),
		good2.ID: fullMonth(),
	}}
	records := newFakeRecords()
	calculator := newTestCalculator(employees, att, records)

	items, err := calculator.GenerateForCompany(context.Background(), good1.TenantID, Period{Month: 9, Year: 2025}, "hr-user")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.True(t, items[0].Success)
	assert.False(t, items[1].Success)
	assert.Contains(t, items[1].Error, "basic salary")
	assert.True(t, items[2].Success, "a failure mid-batch never aborts the run")
	assert.Len(t, records.records, 2)
}

func TestGenerateForCompanyListFailureAborts(t *testing.T) {
	employees := &fakeEmployees{listErr: errors.New("db down")}
	calculator := newTestCalculator(employees, &fakeAttendance{}, newFakeRecords())

	_, err := calculator.GenerateForCompany(context.Background(), "tenant-1", Period{Month: 9, Year: 2025}, "hr-user")
	assert.Error(t, err)
}

func TestGenerateForCompanyAttendanceFailureIsPerItem(t *testing.T) {
	profile := testProfile()
	employees := &fakeEmployees{profiles: []employee.Profile{profile}}
	att := &fakeAttendance{errs: map[string]error{profile.ID: errors.New("attendance query failed")}}
	calculator := newTestCalculator(employees, att, newFakeRecords())

	items, err := calculator.GenerateForCompany(context.Background(), profile.TenantID, Period{Month: 9, Year: 2025}, "hr-user")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Success)
	assert.Contains(t, items[0].Error, "attendance")
}

func TestCalculateBatchUnknownEmployee(t *testing.T) {
	profile := testProfile()
	employees := &fakeEmployees{profiles: []employee.Profile{profile}}
	att := &fakeAttendance{summaries: map[string]attendance.Summary{profile.ID: fullMonth()}}
	records := newFakeRecords()
	calculator := newTestCalculator(employees, att, records)

	items, err := calculator.CalculateBatch(context.Background(), profile.TenantID,
		[]string{profile.ID, "missing"}, Period{Month: 9, Year: 2025}, "hr-user")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].Success)
	assert.False(t, items[1].Success)
	assert.Equal(t, "missing", items[1].EmployeeID)
	assert.Len(t, records.records, 1)
}

func TestGenerateForCompanyStampsActorAndStatus(t *testing.T) {
	profile := testProfile()
	employees := &fakeEmployees{profiles: []employee.Profile{profile}}
	att := &fakeAttendance{summaries: map[string]attendance.Summary{profile.ID: fullMonth()}}
	records := newFakeRecords()
	calculator := newTestCalculator(employees, att, records)

	items, err := calculator.GenerateForCompany(context.Background(), profile.TenantID, Period{Month: 9, Year: 2025}, "hr-user")
	require.NoError(t, err)
	require.True(t, items[0].Success)

	record := items[0].Record
	assert.Equal(t, StatusGenerated, record.Status)
	assert.Equal(t, "hr-user", record.GeneratedBy)
	assert.False(t, record.GeneratedAt.IsZero())
}
