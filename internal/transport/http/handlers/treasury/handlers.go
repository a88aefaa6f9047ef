package treasuryhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/treasury"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *treasury.Service
	Audit   *audit.Recorder
}

func NewHandler(service *treasury.Service, auditRec *audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: auditRec}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/treasury", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTreasuryRead)).Get("/operations", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTreasuryWrite)).Post("/operations", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermTreasuryWrite)).Delete("/operations/{operationID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermTreasuryRead)).Get("/balance", h.handleBalance)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	ops, err := h.Service.List(r.Context(), account)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "operations_failed", "failed to list operations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"operations": ops,
		"balance":    treasury.RunningBalance(ops),
	}, middleware.GetRequestID(r.Context()))
}

type operationPayload struct {
	Account    string          `json:"account"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Label      string          `json:"label"`
	OccurredOn string          `json:"occurredOn"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload operationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Enum("account", payload.Account, []string{treasury.AccountCash, treasury.AccountBank}, "account must be cash or bank")
	v.Enum("direction", payload.Direction, []string{treasury.DirectionIn, treasury.DirectionOut}, "direction must be in or out")
	v.Positive("amount", payload.Amount, "amount must be positive")
	occurredOn := time.Now()
	if payload.OccurredOn != "" {
		if parsed, ok := v.Date("occurredOn", payload.OccurredOn); ok {
			occurredOn = parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	op, err := h.Service.Create(r.Context(), treasury.CreateInput{
		Account:    payload.Account,
		Direction:  payload.Direction,
		Amount:     payload.Amount,
		Label:      payload.Label,
		OccurredOn: occurredOn,
	})
	if err != nil {
		switch {
		case errors.Is(err, treasury.ErrBadAccount), errors.Is(err, treasury.ErrBadDirection), errors.Is(err, treasury.ErrInvalidAmount):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "operation_create_failed", "failed to record operation", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "treasury.create", "treasury_operation", op.ID, payload.Amount.String())
	api.Created(w, op, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	operationID := chi.URLParam(r, "operationID")

	if err := h.Service.Delete(r.Context(), operationID); err != nil {
		if errors.Is(err, treasury.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "operation not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "operation_delete_failed", "failed to delete operation", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "treasury.delete", "treasury_operation", operationID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	balances := map[string]decimal.Decimal{}
	for _, account := range []string{treasury.AccountCash, treasury.AccountBank} {
		balance, err := h.Service.Balance(r.Context(), account)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "balance_failed", "failed to compute balance", middleware.GetRequestID(r.Context()))
			return
		}
		balances[account] = balance
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}
