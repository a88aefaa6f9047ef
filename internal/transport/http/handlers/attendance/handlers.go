package attendancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/komla9992-max/gestion-sub000/internal/domain/attendance"
	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Core    *core.Store
	Audit   *audit.Recorder
}

func NewHandler(service *attendance.Service, coreStore *core.Store, auditRec *audit.Recorder) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Put("/{recordID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite)).Delete("/{recordID}", h.handleDelete)
	})
}

// recordView adds the derived worked-hours label and employee name.
type recordView struct {
	attendance.Record
	EmployeeName string `json:"employeeName"`
	Worked       string `json:"worked"`
}

func (h *Handler) decorate(ctx context.Context, records []attendance.Record) ([]recordView, error) {
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
		worked, err := rec.WorkedLabel()
		if err != nil {
			worked = attendance.UnavailableLabel
		}
		views = append(views, recordView{Record: rec, EmployeeName: name, Worked: worked})
	}
	return views, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, ok := v.Date("from", raw); ok {
			from = &parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, ok := v.Date("to", raw); ok {
			to = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	records, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), records)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

type recordPayload struct {
	EmployeeID string `json:"employeeId"`
	Day        string `json:"day"`
	TimeIn     string `json:"timeIn"`
	TimeOut    string `json:"timeOut"`
	Note       string `json:"note"`
}

func (p recordPayload) toInput(v *shared.Validator) attendance.Input {
	v.Required("employeeId", p.EmployeeID, "employee id required")
	day, _ := v.Date("day", p.Day)
	return attendance.Input{
		EmployeeID: p.EmployeeID,
		Day:        day,
		TimeIn:     p.TimeIn,
		TimeOut:    p.TimeOut,
		Note:       p.Note,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, timeutil.ErrBadClock) {
			api.Fail(w, http.StatusBadRequest, "invalid_clock", "clock times must be HH:MM", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_create_failed", "failed to create record", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "attendance.create", "attendance_record", record.ID, "")
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, err := h.Service.Update(r.Context(), recordID, in)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeutil.ErrBadClock):
			api.Fail(w, http.StatusBadRequest, "invalid_clock", "clock times must be HH:MM", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "attendance_update_failed", "failed to update record", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "attendance.update", "attendance_record", recordID, "")
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")

	if err := h.Service.Delete(r.Context(), recordID); err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_delete_failed", "failed to delete record", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "attendance.delete", "attendance_record", recordID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
