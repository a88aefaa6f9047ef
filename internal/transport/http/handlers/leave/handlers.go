package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/domain/leave"
	"github.com/komla9992-max/gestion-sub000/internal/platform/jobs"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Core    *core.Store
	Audit   *audit.Recorder
	Jobs    *jobs.Service
	Metrics *metrics.Metrics
}

func NewHandler(service *leave.Service, coreStore *core.Store, auditRec *audit.Recorder, jobsSvc *jobs.Service, m *metrics.Metrics) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec, Jobs: jobsSvc, Metrics: m}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/upcoming", h.handleUpcoming)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/{leaveID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Put("/{leaveID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Delete("/{leaveID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{leaveID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{leaveID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/sweep", h.handleSweep)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balance/{employeeID}", h.handleBalance)
	})
}

// recordView decorates a leave record with the employee's display name.
type recordView struct {
	leave.Record
	EmployeeName string `json:"employeeName"`
}

func (h *Handler) decorate(ctx context.Context, records []leave.Record) ([]recordView, error) {
	names, err := h.Core.EmployeeNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		name, ok := names[rec.EmployeeID]
		if !ok {
			name = core.UnknownLabel
		}
		views = append(views, recordView{Record: rec, EmployeeName: name})
	}
	return views, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), records)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	withinDays := leave.DefaultUpcomingWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			withinDays = v
		}
	}
	records, err := h.Service.Upcoming(r.Context(), time.Now(), withinDays)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list upcoming leaves", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), records)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaves_failed", "failed to list upcoming leaves", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "leaveID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

type leavePayload struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Category   string `json:"category"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload leavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id required")
	start := optionalDate(v, "startDate", payload.StartDate)
	end := optionalDate(v, "endDate", payload.EndDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Create(r.Context(), leave.CreateInput{
		EmployeeID: payload.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Category:   payload.Category,
		Reason:     payload.Reason,
	})
	if err != nil {
		if errors.Is(err, leave.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date is before start date", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.LeavesCreated.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "leave.create", "leave_request", record.ID, payload.Category)
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

type leaveUpdatePayload struct {
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Category  *string `json:"category"`
	Reason    *string `json:"reason"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	var payload leaveUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	in := leave.UpdateInput{Category: payload.Category, Reason: payload.Reason}
	if payload.StartDate != nil {
		in.StartDate = optionalDate(v, "startDate", *payload.StartDate)
	}
	if payload.EndDate != nil {
		in.EndDate = optionalDate(v, "endDate", *payload.EndDate)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Update(r.Context(), leaveID, in)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date is before start date", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "only pending requests can be edited", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_update_failed", "failed to update leave request", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "leave.update", "leave_request", leaveID, "")
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	leaveID := chi.URLParam(r, "leaveID")

	if err := h.Service.Delete(r.Context(), leaveID); err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_delete_failed", "failed to delete leave request", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "leave.delete", "leave_request", leaveID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision leave.Status) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	leaveID := chi.URLParam(r, "leaveID")

	record, err := h.Service.SetDecision(r.Context(), leaveID, decision, actor.Role, actor.UserID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "manager or admin required", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "request already decided", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to record decision", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.LeavesDecided.WithLabelValues(string(decision)).Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "leave."+string(decision), "leave_request", leaveID, "")
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusRejected)
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	result, err := h.Jobs.SweepLeaves(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "sweep_failed", "failed to run leave sweep", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.LeaveSweeps.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "leave.sweep", "leave_request", "", "")
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			year = v
		}
	}

	balance, err := h.Service.Balance(r.Context(), employeeID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balance_failed", "failed to compute leave balance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

func optionalDate(v *shared.Validator, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}
