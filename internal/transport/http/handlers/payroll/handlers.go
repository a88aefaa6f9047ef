package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/domain/payroll"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
	Core    *core.Store
	Audit   *audit.Recorder
	Metrics *metrics.Metrics
}

func NewHandler(service *payroll.Service, coreStore *core.Store, auditRec *audit.Recorder, m *metrics.Metrics) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec, Metrics: m}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payslips", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payslipID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{payslipID}/pdf", h.handlePDF)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Delete("/{payslipID}", h.handleDelete)
	})
}

type payslipView struct {
	payroll.Payslip
	EmployeeName string `json:"employeeName"`
}

func (h *Handler) decorate(ctx context.Context, payslips []payroll.Payslip) ([]payslipView, error) {
	names, err := h.Core.EmployeeNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]payslipView, 0, len(payslips))
	for _, slip := range payslips {
		name, ok := names[slip.EmployeeID]
		if !ok {
			name = core.UnknownLabel
		}
		views = append(views, payslipView{Payslip: slip, EmployeeName: name})
	}
	return views, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	payslips, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), payslips)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslips_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	slip, err := h.Service.Get(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "payslipID")
	data, err := h.Service.RenderPDF(r.Context(), payslipID)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bulletin-"+payslipID+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn().Err(err).Str("payslipId", payslipID).Msg("payslip pdf write failed")
	}
}

type createPayload struct {
	EmployeeID      string          `json:"employeeId"`
	Month           string          `json:"month"`
	Bonus           decimal.Decimal `json:"bonus"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
}

// parseMonth accepts "2006-01" or a full date, normalized to the first
// of the month.
func parseMonth(raw string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01", raw); err == nil {
		return parsed, nil
	}
	parsed, err := shared.ParseDate(raw)
	if err != nil || parsed.IsZero() {
		return time.Time{}, fmt.Errorf("invalid month %q", raw)
	}
	return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee id required", middleware.GetRequestID(r.Context()))
		return
	}
	month, err := parseMonth(payload.Month)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "month must be YYYY-MM", middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.Create(r.Context(), payroll.CreateInput{
		EmployeeID:      payload.EmployeeID,
		Month:           month,
		Bonus:           payload.Bonus,
		OtherDeductions: payload.OtherDeductions,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, payroll.ErrInvalidAmount):
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "bonus and deductions must not be negative", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "payslip_create_failed", "failed to create payslip", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.PayslipsGenerated.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "payslip.create", "payslip", slip.ID, payload.Month)
	api.Created(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	payslipID := chi.URLParam(r, "payslipID")

	if err := h.Service.Delete(r.Context(), payslipID); err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_delete_failed", "failed to delete payslip", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "payslip.delete", "payslip", payslipID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
