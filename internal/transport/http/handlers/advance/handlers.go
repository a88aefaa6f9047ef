package advancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/advance"
	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *advance.Service
	Core    *core.Store
	Audit   *audit.Recorder
	Metrics *metrics.Metrics
}

func NewHandler(service *advance.Service, coreStore *core.Store, auditRec *audit.Recorder, m *metrics.Metrics) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec, Metrics: m}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advances", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAdvancesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAdvancesRead)).Get("/{advanceID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAdvancesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAdvancesWrite)).Put("/{advanceID}", h.handleEditTerms)
		r.With(middleware.RequirePermission(auth.PermAdvancesWrite)).Delete("/{advanceID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermAdvancesWrite)).Post("/{advanceID}/repayments", h.handleRecordRepayment)
	})
}

// advanceView decorates the derived figures with the employee's name.
type advanceView struct {
	advance.View
	EmployeeName string `json:"employeeName"`
}

func (h *Handler) decorate(ctx context.Context, advances []advance.Advance) ([]advanceView, error) {
	names, err := h.Core.EmployeeNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]advanceView, 0, len(advances))
	for _, adv := range advances {
		name, ok := names[adv.EmployeeID]
		if !ok {
			name = core.UnknownLabel
		}
		views = append(views, advanceView{View: adv.View(), EmployeeName: name})
	}
	return views, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	advances, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "advances_failed", "failed to list advances", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), advances)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "advances_failed", "failed to list advances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	adv, err := h.Service.Get(r.Context(), chi.URLParam(r, "advanceID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "advance not found", middleware.GetRequestID(r.Context()))
		return
	}

	name := core.UnknownLabel
	if employee, err := h.Core.GetEmployee(r.Context(), adv.EmployeeID); err == nil {
		name = employee.FullName()
	}
	api.Success(w, advanceView{View: adv.View(), EmployeeName: name}, middleware.GetRequestID(r.Context()))
}

type createPayload struct {
	EmployeeID            string          `json:"employeeId"`
	Principal             decimal.Decimal `json:"principal"`
	DateRequested         string          `json:"dateRequested"`
	ExpectedRepaymentDate string          `json:"expectedRepaymentDate"`
	Reason                string          `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id required")
	v.Positive("principal", payload.Principal, "principal must be positive")
	dateRequested := time.Now()
	if payload.DateRequested != "" {
		if parsed, ok := v.Date("dateRequested", payload.DateRequested); ok {
			dateRequested = parsed
		}
	}
	var expectedRepayment *time.Time
	if payload.ExpectedRepaymentDate != "" {
		if parsed, ok := v.Date("expectedRepaymentDate", payload.ExpectedRepaymentDate); ok {
			expectedRepayment = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	adv, err := h.Service.Create(r.Context(), advance.CreateInput{
		EmployeeID:            payload.EmployeeID,
		Principal:             payload.Principal,
		DateRequested:         dateRequested,
		ExpectedRepaymentDate: expectedRepayment,
		Reason:                payload.Reason,
	})
	if err != nil {
		if errors.Is(err, advance.ErrInvalidAmount) {
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "principal must be positive", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "advance_create_failed", "failed to create advance", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.AdvancesCreated.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "advance.create", "advance", adv.ID, payload.Principal.String())
	api.Created(w, adv.View(), middleware.GetRequestID(r.Context()))
}

type termsPayload struct {
	Principal             *decimal.Decimal `json:"principal"`
	DateRequested         *string          `json:"dateRequested"`
	ExpectedRepaymentDate *string          `json:"expectedRepaymentDate"`
	Reason                *string          `json:"reason"`
}

func (h *Handler) handleEditTerms(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	advanceID := chi.URLParam(r, "advanceID")

	var payload termsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	in := advance.TermsInput{Principal: payload.Principal, Reason: payload.Reason}
	if payload.Principal != nil {
		v.Positive("principal", *payload.Principal, "principal must be positive")
	}
	if payload.DateRequested != nil {
		if parsed, ok := v.Date("dateRequested", *payload.DateRequested); ok {
			in.DateRequested = &parsed
		}
	}
	if payload.ExpectedRepaymentDate != nil {
		if parsed, ok := v.Date("expectedRepaymentDate", *payload.ExpectedRepaymentDate); ok {
			in.ExpectedRepaymentDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	adv, err := h.Service.EditTerms(r.Context(), advanceID, in)
	if err != nil {
		switch {
		case errors.Is(err, advance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "advance not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, advance.ErrHasRepayments):
			api.Fail(w, http.StatusConflict, "has_repayments", "terms are frozen once repayments exist", middleware.GetRequestID(r.Context()))
		case errors.Is(err, advance.ErrInvalidAmount):
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "principal must cover what was already repaid", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "advance_update_failed", "failed to update advance", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "advance.update", "advance", advanceID, "")
	api.Success(w, adv.View(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	advanceID := chi.URLParam(r, "advanceID")

	if err := h.Service.Delete(r.Context(), advanceID); err != nil {
		if errors.Is(err, advance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "advance not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "advance_delete_failed", "failed to delete advance", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "advance.delete", "advance", advanceID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type repaymentPayload struct {
	Amount decimal.Decimal `json:"amount"`
	PaidOn string          `json:"paidOn"`
}

func (h *Handler) handleRecordRepayment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	advanceID := chi.URLParam(r, "advanceID")

	var payload repaymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Positive("amount", payload.Amount, "amount must be positive")
	paidOn := time.Now()
	if payload.PaidOn != "" {
		if parsed, ok := v.Date("paidOn", payload.PaidOn); ok {
			paidOn = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	adv, err := h.Service.RecordRepayment(r.Context(), advanceID, payload.Amount, paidOn)
	if err != nil {
		switch {
		case errors.Is(err, advance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "advance not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, advance.ErrInvalidAmount):
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", middleware.GetRequestID(r.Context()))
		case errors.Is(err, advance.ErrOverRepayment):
			api.Fail(w, http.StatusUnprocessableEntity, "over_repayment", "repayment exceeds the outstanding balance", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "repayment_failed", "failed to record repayment", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.RepaymentsRecorded.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "advance.repayment", "advance", advanceID, payload.Amount.String())
	api.Success(w, adv.View(), middleware.GetRequestID(r.Context()))
}
