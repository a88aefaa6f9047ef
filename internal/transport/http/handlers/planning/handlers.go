package planninghandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/domain/planning"
	"github.com/komla9992-max/gestion-sub000/internal/timeutil"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *planning.Service
	Core    *core.Store
	Audit   *audit.Recorder
}

func NewHandler(service *planning.Service, coreStore *core.Store, auditRec *audit.Recorder) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/planning", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPlanningRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPlanningWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPlanningWrite)).Put("/{assignmentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermPlanningWrite)).Delete("/{assignmentID}", h.handleDelete)
	})
}

type assignmentView struct {
	planning.Assignment
	EmployeeName string `json:"employeeName"`
	ClientName   string `json:"clientName"`
}

func (h *Handler) decorate(ctx context.Context, assignments []planning.Assignment) ([]assignmentView, error) {
	employees, err := h.Core.EmployeeNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := h.Core.ClientNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		employeeName, ok := employees[a.EmployeeID]
		if !ok {
			employeeName = core.UnknownLabel
		}
		clientName, ok := clients[a.ClientID]
		if !ok {
			clientName = core.UnknownLabel
		}
		views = append(views, assignmentView{Assignment: a, EmployeeName: employeeName, ClientName: clientName})
	}
	return views, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Service.List(r.Context(), r.URL.Query().Get("employeeId"), r.URL.Query().Get("clientId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "planning_failed", "failed to list assignments", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), assignments)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "planning_failed", "failed to list assignments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

type assignmentPayload struct {
	EmployeeID string `json:"employeeId"`
	ClientID   string `json:"clientId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	ShiftStart string `json:"shiftStart"`
	ShiftEnd   string `json:"shiftEnd"`
	Note       string `json:"note"`
}

func (p assignmentPayload) toInput(v *shared.Validator) planning.Input {
	v.Required("employeeId", p.EmployeeID, "employee id required")
	v.Required("clientId", p.ClientID, "client id required")
	start, _ := v.Date("startDate", p.StartDate)
	var end *time.Time
	if p.EndDate != "" {
		if parsed, ok := v.Date("endDate", p.EndDate); ok {
			end = &parsed
		}
	}
	return planning.Input{
		EmployeeID: p.EmployeeID,
		ClientID:   p.ClientID,
		StartDate:  start,
		EndDate:    end,
		ShiftStart: p.ShiftStart,
		ShiftEnd:   p.ShiftEnd,
		Note:       p.Note,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	assignment, err := h.Service.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, planning.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date is before start date", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeutil.ErrBadClock):
			api.Fail(w, http.StatusBadRequest, "invalid_clock", "shift times must be HH:MM", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "assignment_create_failed", "failed to create assignment", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "planning.create", "planning_assignment", assignment.ID, "")
	api.Created(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")

	var payload assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	in := payload.toInput(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	assignment, err := h.Service.Update(r.Context(), assignmentID, in)
	if err != nil {
		switch {
		case errors.Is(err, planning.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "assignment not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, planning.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "end date is before start date", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timeutil.ErrBadClock):
			api.Fail(w, http.StatusBadRequest, "invalid_clock", "shift times must be HH:MM", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "assignment_update_failed", "failed to update assignment", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "planning.update", "planning_assignment", assignmentID, "")
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	assignmentID := chi.URLParam(r, "assignmentID")

	if err := h.Service.Delete(r.Context(), assignmentID); err != nil {
		if errors.Is(err, planning.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "assignment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assignment_delete_failed", "failed to delete assignment", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "planning.delete", "planning_assignment", assignmentID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
