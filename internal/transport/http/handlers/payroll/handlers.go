package payrollhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"managertc/internal/domain/employee"
	"managertc/internal/domain/payroll"
	"managertc/internal/domain/payslip"
	"managertc/internal/transport/http/api"
	"managertc/internal/transport/http/middleware"
)

// Handler is a thin relay: batch endpoints return the calculator's and
// renderer's per-item results verbatim.
type Handler struct {
	Calculator *payroll.Calculator
	Records    *payroll.Store
	Renderer   *payslip.Renderer
	Files      payslip.ArtifactStore
}

func NewHandler(calculator *payroll.Calculator, records *payroll.Store, renderer *payslip.Renderer, files payslip.ArtifactStore) *Handler {
	return &Handler{Calculator: calculator, Records: records, Renderer: renderer, Files: files}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/runs/{year}/{month}", h.handleGenerateForCompany)
		r.Post("/calculate", h.handleCalculateBatch)
		r.Get("/records", h.handleListRecords)
		r.Get("/records/{employeeID}/{year}/{month}", h.handleGetRecord)
		r.Post("/records/{recordID}/approve", h.handleApprove)
		r.Post("/records/{recordID}/reject", h.handleReject)
		r.Post("/records/{recordID}/pay", h.handleMarkPaid)
		r.Post("/records/{recordID}/cancel", h.handleCancel)
		r.Post("/payslips/{year}/{month}", h.handleRenderCompanyPayslips)
		r.Post("/records/{employeeID}/{year}/{month}/payslip", h.handleRenderPayslip)
		r.Get("/records/{employeeID}/{year}/{month}/payslip", h.handleDownloadPayslip)
	})
}

func (h *Handler) handleGenerateForCompany(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	period, ok := periodFromURL(w, r, requestID)
	if !ok {
		return
	}

	items, err := h.Calculator.GenerateForCompany(r.Context(), user.TenantID, period, user.UserID)
	if err != nil {
		failFor(w, err, "payroll_run_failed", "payroll generation failed", requestID)
		return
	}
	api.Success(w, items, requestID)
}

type calculatePayload struct {
	EmployeeIDs []string `json:"employeeIds"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
}

func (h *Handler) handleCalculateBatch(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload calculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", requestID)
		return
	}
	if len(payload.EmployeeIDs) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeIds is required", requestID)
		return
	}

	period := payroll.Period{Month: payload.Month, Year: payload.Year}
	items, err := h.Calculator.CalculateBatch(r.Context(), user.TenantID, payload.EmployeeIDs, period, user.UserID)
	if err != nil {
		failFor(w, err, "payroll_batch_failed", "payroll calculation failed", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month query parameter is required", requestID)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year query parameter is required", requestID)
		return
	}
	var statuses []payroll.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := payroll.Status(strings.TrimSpace(part))
			if !status.Valid() {
				api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown status "+part, requestID)
				return
			}
			statuses = append(statuses, status)
		}
	}

	records, err := h.Records.FindByCompanyAndPeriod(r.Context(), user.TenantID, month, year, statuses)
	if err != nil {
		failFor(w, err, "payroll_list_failed", "failed to list payroll records", requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	period, ok := periodFromURL(w, r, requestID)
	if !ok {
		return
	}

	record, err := h.Records.FindByKey(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), period.Month, period.Year)
	if err != nil {
		failFor(w, err, "payroll_get_failed", "failed to load payroll record", requestID)
		return
	}
	api.Success(w, record, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(tenantID, recordID, actor string, _ *http.Request) error {
		return h.Records.Approve(r.Context(), tenantID, recordID, actor)
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(tenantID, recordID, actor string, req *http.Request) error {
		var payload struct {
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			payload.Reason = ""
		}
		return h.Records.Reject(req.Context(), tenantID, recordID, actor, payload.Reason)
	})
}

func (h *Handler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(tenantID, recordID, _ string, req *http.Request) error {
		var payload struct {
			PaymentMethod  string `json:"paymentMethod"`
			TransactionRef string `json:"transactionRef"`
			PaymentDate    string `json:"paymentDate"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			return errors.New("invalid request body")
		}
		paymentDate := time.Now().UTC()
		if payload.PaymentDate != "" {
			parsed, err := time.Parse("2006-01-02", payload.PaymentDate)
			if err != nil {
				return errors.New("paymentDate must be YYYY-MM-DD")
			}
			paymentDate = parsed
		}
		return h.Records.MarkPaid(req.Context(), tenantID, recordID, payload.PaymentMethod, payload.TransactionRef, paymentDate)
	})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(tenantID, recordID, _ string, req *http.Request) error {
		return h.Records.Cancel(req.Context(), tenantID, recordID)
	})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(tenantID, recordID, actor string, req *http.Request) error) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if err := apply(user.TenantID, recordID, user.UserID, r); err != nil {
		failFor(w, err, "payroll_transition_failed", err.Error(), requestID)
		return
	}
	api.Success(w, map[string]string{"id": recordID}, requestID)
}

func (h *Handler) handleRenderCompanyPayslips(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	period, ok := periodFromURL(w, r, requestID)
	if !ok {
		return
	}

	items, err := h.Renderer.RenderForCompany(r.Context(), user.TenantID, period)
	if err != nil {
		failFor(w, err, "payslip_batch_failed", "payslip generation failed", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleRenderPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	period, ok := periodFromURL(w, r, requestID)
	if !ok {
		return
	}

	path, err := h.Renderer.RenderForRecord(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), period)
	if err != nil {
		failFor(w, err, "payslip_render_failed", "payslip generation failed", requestID)
		return
	}
	api.Success(w, map[string]string{"payslipUrl": path}, requestID)
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	period, ok := periodFromURL(w, r, requestID)
	if !ok {
		return
	}

	record, err := h.Records.FindByKey(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), period.Month, period.Year)
	if err != nil {
		failFor(w, err, "payslip_download_failed", "failed to load payroll record", requestID)
		return
	}
	if !record.PayslipGenerated || record.PayslipURL == "" {
		api.Fail(w, http.StatusNotFound, "payslip_not_generated", "payslip has not been generated", requestID)
		return
	}

	data, err := h.Files.Read(r.Context(), record.PayslipURL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_download_failed", "failed to read payslip", requestID)
		return
	}

	name := filepath.Base(strings.TrimSuffix(record.PayslipURL, ".enc"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	_, _ = w.Write(data)
}

func periodFromURL(w http.ResponseWriter, r *http.Request, requestID string) (payroll.Period, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "year must be numeric", requestID)
		return payroll.Period{}, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "month must be numeric", requestID)
		return payroll.Period{}, false
	}
	period := payroll.Period{Month: month, Year: year}
	if err := period.Validate(); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		return payroll.Period{}, false
	}
	return period, true
}

func failFor(w http.ResponseWriter, err error, code, message, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrRecordNotFound), errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, payroll.ErrMissingBasic):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case errors.Is(err, payroll.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
