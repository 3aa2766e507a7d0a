package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const profileColumns = `
    id, tenant_id, employee_code, first_name, last_name, email,
    designation, department, status, joining_date,
    basic_salary, hra, allowances, bonus_eligible,
    COALESCE(bank_name, ''), COALESCE(bank_account, ''), COALESCE(payment_method, '')`

func (s *Store) FindByID(ctx context.Context, tenantID, employeeID string) (Profile, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+profileColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID)

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, employeeID)
	}
	return profile, err
}

// ListPayable returns the employees a payroll run covers: active and
// probationary staff of the tenant.
func (s *Store) ListPayable(ctx context.Context, tenantID string) ([]Profile, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+profileColumns+`
    FROM employees
    WHERE tenant_id = $1 AND status = ANY($2)
    ORDER BY employee_code
  `, tenantID, []string{StatusActive, StatusProbation})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID, &p.TenantID, &p.EmployeeCode, &p.FirstName, &p.LastName, &p.Email,
		&p.Designation, &p.Department, &p.Status, &p.JoiningDate,
		&p.BasicSalary, &p.HRA, &p.Allowances, &p.BonusEligible,
		&p.BankName, &p.BankAccount, &p.PaymentMethod,
	)
	return p, err
}
