package attendance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID string, month, year int) ([]Entry, error) {
	start, end := PeriodBounds(month, year)
	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id, employee_id, date, status, work_hours, overtime_hours, is_late
    FROM attendance_records
    WHERE tenant_id = $1 AND employee_id = $2 AND date >= $3 AND date < $4
    ORDER BY date
  `, tenantID, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.EmployeeID, &entry.Date, &entry.Status, &entry.WorkHours, &entry.OvertimeHours, &entry.IsLate); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SummaryForPeriod loads and reduces one employee's month of attendance.
func (s *Store) SummaryForPeriod(ctx context.Context, tenantID, employeeID string, month, year int) (Summary, error) {
	entries, err := s.FindByEmployeeAndPeriod(ctx, tenantID, employeeID, month, year)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(entries), nil
}
