package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the pgx-backed RecordStore. The (tenant_id, employee_id, month,
// year) unique index plus ON CONFLICT upsert is what makes regeneration
// idempotent and safe under concurrency.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
    id, tenant_id, employee_id, month, year,
    earnings, deductions, attendance,
    gross_salary, total_deductions, net_salary,
    status, payment_date, COALESCE(payment_method, ''), COALESCE(transaction_ref, ''),
    COALESCE(generated_by, ''), generated_at,
    COALESCE(approved_by, ''), approved_at,
    COALESCE(rejected_by, ''), rejected_at, COALESCE(rejection_reason, ''),
    payslip_generated, COALESCE(payslip_url, ''), payslip_email_sent,
    created_at, updated_at`

// Upsert writes the computed payroll for one (tenant, employee, month, year)
// in a single conditional statement. On conflict it refreshes the computation
// and generation audit fields; the approval and payment columns belong to the
// downstream workflow and are deliberately left alone. Status only moves
// while the record is still in Draft or Generated.
func (s *Store) Upsert(ctx context.Context, record Record) (Record, error) {
	earningsJSON, deductionsJSON, attendanceJSON, err := marshalBlobs(record)
	if err != nil {
		return Record{}, err
	}

	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (
      tenant_id, employee_id, month, year,
      earnings, deductions, attendance,
      gross_salary, total_deductions, net_salary,
      status, generated_by, generated_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (tenant_id, employee_id, month, year)
    DO UPDATE SET
      earnings = EXCLUDED.earnings,
      deductions = EXCLUDED.deductions,
      attendance = EXCLUDED.attendance,
      gross_salary = EXCLUDED.gross_salary,
      total_deductions = EXCLUDED.total_deductions,
      net_salary = EXCLUDED.net_salary,
      status = CASE WHEN payroll_records.status IN ('Draft','Generated')
               THEN EXCLUDED.status ELSE payroll_records.status END,
      generated_by = EXCLUDED.generated_by,
      generated_at = EXCLUDED.generated_at,
      updated_at = now()
    RETURNING`+recordColumns+`
  `, record.TenantID, record.EmployeeID, record.Month, record.Year,
		earningsJSON, deductionsJSON, attendanceJSON,
		record.GrossSalary, record.TotalDeductions, record.NetSalary,
		string(record.Status), nullIfEmpty(record.GeneratedBy), record.GeneratedAt)

	return scanRecord(row)
}

func (s *Store) FindByKey(ctx context.Context, tenantID, employeeID string, month, year int) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+recordColumns+`
    FROM payroll_records
    WHERE tenant_id = $1 AND employee_id = $2 AND month = $3 AND year = $4
  `, tenantID, employeeID, month, year)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: employee %s %d/%d", ErrRecordNotFound, employeeID, month, year)
	}
	return record, err
}

func (s *Store) FindByCompanyAndPeriod(ctx context.Context, tenantID string, month, year int, statusIn []Status) ([]Record, error) {
	statuses := make([]string, 0, len(statusIn))
	for _, status := range statusIn {
		statuses = append(statuses, string(status))
	}

	query := `
    SELECT` + recordColumns + `
    FROM payroll_records
    WHERE tenant_id = $1 AND month = $2 AND year = $3`
	args := []any{tenantID, month, year}
	if len(statuses) > 0 {
		query += " AND status = ANY($4)"
		args = append(args, statuses)
	}
	query += " ORDER BY employee_id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SetPayslip records a successfully written artifact. Called only after the
// file is durably on disk, so a crashed render leaves the flags untouched and
// the retry path clean.
func (s *Store) SetPayslip(ctx context.Context, tenantID, recordID, payslipURL string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET payslip_generated = true, payslip_url = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, payslipURL, tenantID, recordID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s", ErrRecordNotFound, recordID)
	}
	return nil
}

func (s *Store) MarkPayslipEmailed(ctx context.Context, tenantID, recordID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET payslip_email_sent = true, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, recordID)
	return err
}

// Approve moves Generated → Approved. The WHERE clause carries the transition
// guard so the update is atomic; zero rows means the record is missing or in
// the wrong state.
func (s *Store) Approve(ctx context.Context, tenantID, recordID, actor string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET status = $1, approved_by = $2, approved_at = now(), updated_at = now()
    WHERE tenant_id = $3 AND id = $4 AND status = $5
  `, string(StatusApproved), actor, tenantID, recordID, string(StatusGenerated))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, tenantID, recordID, StatusApproved)
	}
	return nil
}

func (s *Store) Reject(ctx context.Context, tenantID, recordID, actor, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET status = $1, rejected_by = $2, rejected_at = now(), rejection_reason = $3, updated_at = now()
    WHERE tenant_id = $4 AND id = $5 AND status = ANY($6)
  `, string(StatusRejected), actor, reason, tenantID, recordID,
		[]string{string(StatusGenerated), string(StatusApproved)})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, tenantID, recordID, StatusRejected)
	}
	return nil
}

func (s *Store) MarkPaid(ctx context.Context, tenantID, recordID, method, transactionRef string, paymentDate time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET status = $1, payment_date = $2, payment_method = $3, transaction_ref = $4, updated_at = now()
    WHERE tenant_id = $5 AND id = $6 AND status = $7
  `, string(StatusPaid), paymentDate, method, transactionRef, tenantID, recordID, string(StatusApproved))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, tenantID, recordID, StatusPaid)
	}
	return nil
}

func (s *Store) Cancel(ctx context.Context, tenantID, recordID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_records
    SET status = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3 AND status = ANY($4)
  `, string(StatusCancelled), tenantID, recordID,
		[]string{string(StatusDraft), string(StatusGenerated), string(StatusApproved)})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.transitionError(ctx, tenantID, recordID, StatusCancelled)
	}
	return nil
}

func (s *Store) transitionError(ctx context.Context, tenantID, recordID string, target Status) error {
	var current string
	err := s.DB.QueryRow(ctx, `
    SELECT status FROM payroll_records WHERE tenant_id = $1 AND id = $2
  `, tenantID, recordID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: id %s", ErrRecordNotFound, recordID)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
}

func marshalBlobs(record Record) (earnings, deductions, attendanceJSON []byte, err error) {
	if earnings, err = json.Marshal(record.Earnings); err != nil {
		return nil, nil, nil, err
	}
	if deductions, err = json.Marshal(record.Deductions); err != nil {
		return nil, nil, nil, err
	}
	if attendanceJSON, err = json.Marshal(record.Attendance); err != nil {
		return nil, nil, nil, err
	}
	return earnings, deductions, attendanceJSON, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var record Record
	var earningsJSON, deductionsJSON, attendanceJSON []byte
	var status string
	err := row.Scan(
		&record.ID, &record.TenantID, &record.EmployeeID, &record.Month, &record.Year,
		&earningsJSON, &deductionsJSON, &attendanceJSON,
		&record.GrossSalary, &record.TotalDeductions, &record.NetSalary,
		&status, &record.PaymentDate, &record.PaymentMethod, &record.TransactionRef,
		&record.GeneratedBy, &record.GeneratedAt,
		&record.ApprovedBy, &record.ApprovedAt,
		&record.RejectedBy, &record.RejectedAt, &record.RejectionReason,
		&record.PayslipGenerated, &record.PayslipURL, &record.PayslipEmailSent,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	record.Status = Status(status)
	if err := json.Unmarshal(earningsJSON, &record.Earnings); err != nil {
		return Record{}, fmt.Errorf("decode earnings: %w", err)
	}
	if err := json.Unmarshal(deductionsJSON, &record.Deductions); err != nil {
		return Record{}, fmt.Errorf("decode deductions: %w", err)
	}
	if err := json.Unmarshal(attendanceJSON, &record.Attendance); err != nil {
		return Record{}, fmt.Errorf("decode attendance: %w", err)
	}
	return record, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
