package payslip

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jung-kurt/gofpdf"

	"managertc/internal/domain/employee"
	"managertc/internal/domain/payroll"
)

// Mailer delivers the payslip notification. A noop implementation stands in
// when email is disabled.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Config struct {
	CompanyName    string
	CompanyAddress string
	EmailFrom      string
	EmailEnabled   bool
}

// Renderer turns persisted payroll records into PDF payslips, writes them to
// the artifact store and flips the record's payslip flags. Rendering is
// retry-safe: nothing is persisted and no flag is touched unless the PDF is
// durably written first.
type Renderer struct {
	records   payroll.RecordStore
	employees payroll.EmployeeSource
	files     ArtifactStore
	mailer    Mailer
	cfg       Config
}

func NewRenderer(records payroll.RecordStore, employees payroll.EmployeeSource, files ArtifactStore, mailer Mailer, cfg Config) *Renderer {
	return &Renderer{records: records, employees: employees, files: files, mailer: mailer, cfg: cfg}
}

// renderable are the workflow states a payslip may be produced for.
var renderable = []payroll.Status{payroll.StatusGenerated, payroll.StatusApproved, payroll.StatusPaid}

// Render produces and stores the payslip for one record, returning the
// artifact path. The filename embeds employee, period and generation time so
// re-renders never collide.
func (r *Renderer) Render(ctx context.Context, record payroll.Record, profile employee.Profile) (string, error) {
	generatedAt := time.Now().UTC()
	data, err := buildPDF(record, profile, r.cfg, generatedAt)
	if err != nil {
		return "", fmt.Errorf("render payslip for %s: %w", profile.ID, err)
	}

	filename := fmt.Sprintf("payslip_%s_%d_%d_%s.pdf",
		profile.ID, record.Month, record.Year, generatedAt.Format("20060102150405"))
	path, err := r.files.Write(ctx, filename, data)
	if err != nil {
		return "", fmt.Errorf("store payslip for %s: %w", profile.ID, err)
	}

	if err := r.records.SetPayslip(ctx, record.TenantID, record.ID, path); err != nil {
		return "", err
	}

	r.notify(ctx, record, profile, path)
	return path, nil
}

// RenderForRecord loads the record and profile by key and renders it.
func (r *Renderer) RenderForRecord(ctx context.Context, tenantID, employeeID string, period payroll.Period) (string, error) {
	if err := period.Validate(); err != nil {
		return "", err
	}
	record, err := r.records.FindByKey(ctx, tenantID, employeeID, period.Month, period.Year)
	if err != nil {
		return "", err
	}
	profile, err := r.employees.FindByID(ctx, tenantID, employeeID)
	if err != nil {
		return "", err
	}
	return r.Render(ctx, record, profile)
}

// RenderForCompany renders every eligible record of the tenant's period.
// Records are processed sequentially with the same partial-failure contract
// as payroll generation: each failure is reported in its item and the run
// continues.
func (r *Renderer) RenderForCompany(ctx context.Context, tenantID string, period payroll.Period) ([]payroll.BatchItem, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	records, err := r.records.FindByCompanyAndPeriod(ctx, tenantID, period.Month, period.Year, renderable)
	if err != nil {
		return nil, fmt.Errorf("list payroll records: %w", err)
	}

	items := make([]payroll.BatchItem, 0, len(records))
	for _, record := range records {
		record := record
		profile, err := r.employees.FindByID(ctx, tenantID, record.EmployeeID)
		if err != nil {
			items = append(items, payroll.BatchItem{EmployeeID: record.EmployeeID, Error: err.Error()})
			continue
		}
		path, err := r.Render(ctx, record, profile)
		if err != nil {
			slog.Warn("payslip render failed",
				"tenantId", tenantID, "employeeId", record.EmployeeID,
				"month", period.Month, "year", period.Year, "err", err)
			items = append(items, payroll.BatchItem{EmployeeID: record.EmployeeID, Error: err.Error()})
			continue
		}
		record.PayslipGenerated = true
		record.PayslipURL = path
		items = append(items, payroll.BatchItem{Success: true, EmployeeID: record.EmployeeID, Record: &record})
	}
	return items, nil
}

// notify emails the employee about the new payslip. Delivery problems are
// logged, not returned: the payslip itself is already stored.
func (r *Renderer) notify(ctx context.Context, record payroll.Record, profile employee.Profile, path string) {
	if r.mailer == nil || !r.cfg.EmailEnabled || profile.Email == "" {
		return
	}
	period := payroll.Period{Month: record.Month, Year: record.Year}
	subject := fmt.Sprintf("Your payslip for %s", period.Label())
	body := fmt.Sprintf(
		"Hello %s,\n\nYour payslip for %s is ready.\nNet pay: %s\n\nIt is available from the HR portal at %s.\n\n%s",
		profile.FullName(), period.Label(), FormatINR(record.NetSalary), path, r.cfg.CompanyName)
	if err := r.mailer.Send(ctx, r.cfg.EmailFrom, profile.Email, subject, body); err != nil {
		slog.Warn("payslip email failed", "employeeId", profile.ID, "err", err)
		return
	}
	if err := r.records.MarkPayslipEmailed(ctx, record.TenantID, record.ID); err != nil {
		slog.Warn("payslip email flag update failed", "recordId", record.ID, "err", err)
	}
}

func buildPDF(record payroll.Record, profile employee.Profile, cfg Config, generatedAt time.Time) ([]byte, error) {
	period := payroll.Period{Month: record.Month, Year: record.Year}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", profile.EmployeeCode, period.Label()), false)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", generatedAt.Format("02-Jan-2006 15:04 MST")), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Header / branding block.
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, cfg.CompanyName, "", 1, "C", false, 0, "")
	if cfg.CompanyAddress != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, cfg.CompanyAddress, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip for %s", period.Label()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Employee identity block.
	pdf.SetFont("Helvetica", "", 10)
	identity := [][2]string{
		{"Employee", profile.FullName()},
		{"Employee Code", profile.EmployeeCode},
		{"Designation", profile.Designation},
		{"Department", profile.Department},
		{"Date of Joining", FormatDate(profile.JoiningDate)},
	}
	for _, pair := range identity {
		pdf.CellFormat(45, 6, pair[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, ": "+pair[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Earnings table.
	sectionHeader(pdf, "Earnings")
	amountRow(pdf, "Basic Salary", record.Earnings.Basic)
	amountRow(pdf, "House Rent Allowance", record.Earnings.HRA)
	amountRow(pdf, "Dearness Allowance", record.Earnings.DearnessAllowance)
	amountRow(pdf, "Conveyance Allowance", record.Earnings.Conveyance)
	amountRow(pdf, "Medical Allowance", record.Earnings.Medical)
	amountRow(pdf, "Special Allowance", record.Earnings.SpecialAllowance)
	amountRow(pdf, "Other Allowances", record.Earnings.OtherAllowances)
	amountRow(pdf, "Overtime", record.Earnings.Overtime)
	amountRow(pdf, "Bonus", record.Earnings.Bonus)
	amountRow(pdf, "Incentive", record.Earnings.Incentive)
	amountRow(pdf, "Arrears", record.Earnings.Arrears)
	amountRow(pdf, "Commission", record.Earnings.Commission)
	totalRow(pdf, "Gross Salary", record.GrossSalary)
	pdf.Ln(4)

	// Deductions table.
	sectionHeader(pdf, "Deductions")
	amountRow(pdf, "Provident Fund", record.Deductions.ProvidentFund)
	amountRow(pdf, "State Insurance (ESI)", record.Deductions.StateInsurance)
	amountRow(pdf, "Professional Tax", record.Deductions.ProfessionalTax)
	amountRow(pdf, "Income Tax (TDS)", record.Deductions.IncomeTax)
	amountRow(pdf, "Loan", record.Deductions.Loan)
	amountRow(pdf, "Advance", record.Deductions.Advance)
	amountRow(pdf, "Late Penalty", record.Deductions.LatePenalty)
	amountRow(pdf, "Other Deductions", record.Deductions.Other)
	totalRow(pdf, "Total Deductions", record.TotalDeductions)
	pdf.Ln(4)

	// Net pay summary.
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 9, fmt.Sprintf("Net Salary (Gross %s - Deductions %s)",
		FormatINR(record.GrossSalary), FormatINR(record.TotalDeductions)), "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 9, FormatINR(record.NetSalary), "1", 1, "R", true, 0, "")
	pdf.Ln(4)

	// Attendance summary.
	sectionHeader(pdf, "Attendance Summary")
	pdf.SetFont("Helvetica", "", 10)
	att := record.Attendance
	attendanceLines := [][2]string{
		{"Present Days", fmt.Sprintf("%.1f", att.PresentDays)},
		{"Absent Days", fmt.Sprintf("%.1f", att.AbsentDays)},
		{"Paid Leave", fmt.Sprintf("%.1f", att.PaidLeaveDays)},
		{"Unpaid Leave", fmt.Sprintf("%.1f", att.UnpaidLeaveDays)},
		{"Holidays", fmt.Sprintf("%.1f", att.HolidayDays)},
		{"Overtime Hours", fmt.Sprintf("%.1f", att.OvertimeHours)},
		{"Late Days", fmt.Sprintf("%d", att.LateDays)},
	}
	for _, pair := range attendanceLines {
		pdf.CellFormat(130, 6, pair[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, pair[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Payment information.
	sectionHeader(pdf, "Payment Information")
	pdf.SetFont("Helvetica", "", 10)
	paymentDate := "-"
	if record.PaymentDate != nil {
		paymentDate = FormatDate(*record.PaymentDate)
	}
	paymentLines := [][2]string{
		{"Status", string(record.Status)},
		{"Payment Date", paymentDate},
		{"Payment Method", orDash(record.PaymentMethod)},
		{"Bank", orDash(profile.BankName)},
		{"Account", orDash(maskAccount(profile.BankAccount))},
		{"Transaction Ref", orDash(record.TransactionRef)},
	}
	for _, pair := range paymentLines {
		pdf.CellFormat(130, 6, pair[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, pair[1], "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(40, 60, 100)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, title, "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func amountRow(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(130, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, FormatINR(amount), "1", 1, "R", false, 0, "")
}

func totalRow(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(130, 7, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, FormatINR(amount), "1", 1, "R", false, 0, "")
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	return "****" + account[len(account)-4:]
}
