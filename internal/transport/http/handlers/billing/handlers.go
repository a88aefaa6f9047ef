package billinghandler

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
	"github.com/komla9992-max/gestion-sub000/internal/domain/billing"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *billing.Service
	Core    *core.Store
	Audit   *audit.Recorder
	Metrics *metrics.Metrics
}

func NewHandler(service *billing.Service, coreStore *core.Store, auditRec *audit.Recorder, m *metrics.Metrics) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditRec, Metrics: m}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermInvoicesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermInvoicesRead)).Get("/{invoiceID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermInvoicesRead)).Get("/{invoiceID}/pdf", h.handlePDF)
		r.With(middleware.RequirePermission(auth.PermInvoicesWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermInvoicesWrite)).Delete("/{invoiceID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermInvoicesWrite)).Post("/{invoiceID}/payments", h.handleRecordPayment)
	})
}

type invoiceView struct {
	billing.View
	ClientName string `json:"clientName"`
}

func (h *Handler) decorate(ctx context.Context, invoices []billing.Invoice) ([]invoiceView, error) {
	names, err := h.Core.ClientNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		name, ok := names[inv.ClientID]
		if !ok {
			name = core.UnknownLabel
		}
		views = append(views, invoiceView{View: inv.View(), ClientName: name})
	}
	return views, nil
}

func (h *Handler) clientName(ctx context.Context, clientID string) string {
	client, err := h.Core.GetClient(ctx, clientID)
	if err != nil {
		return core.UnknownLabel
	}
	return client.Name
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.List(r.Context(), r.URL.Query().Get("clientId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "invoices_failed", "failed to list invoices", middleware.GetRequestID(r.Context()))
		return
	}
	views, err := h.decorate(r.Context(), invoices)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "invoices_failed", "failed to list invoices", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "invoice not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, invoiceView{View: inv.View(), ClientName: h.clientName(r.Context(), inv.ClientID)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "invoice not found", middleware.GetRequestID(r.Context()))
		return
	}

	data, err := h.Service.RenderPDF(inv, h.clientName(r.Context(), inv.ClientID))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render invoice", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "facture-"+inv.Number+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn().Err(err).Str("invoiceId", inv.ID).Msg("invoice pdf write failed")
	}
}

type createPayload struct {
	ClientID string          `json:"clientId"`
	Number   string          `json:"number"`
	IssuedOn string          `json:"issuedOn"`
	DueOn    string          `json:"dueOn"`
	Amount   decimal.Decimal `json:"amount"`
	Label    string          `json:"label"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("clientId", payload.ClientID, "client id required")
	v.Required("number", payload.Number, "invoice number required")
	v.Positive("amount", payload.Amount, "amount must be positive")
	issuedOn := time.Now()
	if payload.IssuedOn != "" {
		if parsed, ok := v.Date("issuedOn", payload.IssuedOn); ok {
			issuedOn = parsed
		}
	}
	var dueOn *time.Time
	if payload.DueOn != "" {
		if parsed, ok := v.Date("dueOn", payload.DueOn); ok {
			dueOn = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	inv, err := h.Service.Create(r.Context(), billing.CreateInput{
		ClientID: payload.ClientID,
		Number:   payload.Number,
		IssuedOn: issuedOn,
		DueOn:    dueOn,
		Amount:   payload.Amount,
		Label:    payload.Label,
	})
	if err != nil {
		if errors.Is(err, billing.ErrInvalidAmount) {
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "invoice_create_failed", "failed to create invoice", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.InvoicesCreated.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "invoice.create", "invoice", inv.ID, inv.Number)
	api.Created(w, inv.View(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	if err := h.Service.Delete(r.Context(), invoiceID); err != nil {
		if errors.Is(err, billing.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "invoice not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "invoice_delete_failed", "failed to delete invoice", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "invoice.delete", "invoice", invoiceID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type paymentPayload struct {
	Amount decimal.Decimal `json:"amount"`
	PaidOn string          `json:"paidOn"`
	Method string          `json:"method"`
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	invoiceID := chi.URLParam(r, "invoiceID")

	var payload paymentPayload
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

	inv, err := h.Service.RecordPayment(r.Context(), invoiceID, payload.Amount, paidOn, payload.Method)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "invoice not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, billing.ErrInvalidAmount):
			api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be positive", middleware.GetRequestID(r.Context()))
		case errors.Is(err, billing.ErrOverPayment):
			api.Fail(w, http.StatusUnprocessableEntity, "over_payment", "payment exceeds the open balance", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "payment_failed", "failed to record payment", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.PaymentsRecorded.Inc()
	}
	h.Audit.Record(r.Context(), actor.UserID, "invoice.payment", "invoice", invoiceID, payload.Amount.String())
	api.Success(w, inv.View(), middleware.GetRequestID(r.Context()))
}
