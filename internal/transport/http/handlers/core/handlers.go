package corehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/domain/core"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/shared"
)

const maxDocumentBytes = 5 * 1024 * 1024

type Handler struct {
	Store *core.Store
	Audit *audit.Recorder
}

func NewHandler(store *core.Store, auditRec *audit.Recorder) *Handler {
	return &Handler{Store: store, Audit: auditRec}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Delete("/{employeeID}", h.handleDeleteEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{employeeID}/documents", h.handleListDocuments)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/{employeeID}/documents", h.handleUploadDocument)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/{employeeID}/documents/{documentID}/download", h.handleDownloadDocument)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Delete("/{employeeID}/documents/{documentID}", h.handleDeleteDocument)
	})
	r.Route("/clients", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermClientsRead)).Get("/", h.handleListClients)
		r.With(middleware.RequirePermission(auth.PermClientsRead)).Get("/{clientID}", h.handleGetClient)
		r.With(middleware.RequirePermission(auth.PermClientsWrite)).Post("/", h.handleCreateClient)
		r.With(middleware.RequirePermission(auth.PermClientsWrite)).Put("/{clientID}", h.handleUpdateClient)
		r.With(middleware.RequirePermission(auth.PermClientsWrite)).Delete("/{clientID}", h.handleDeleteClient)
	})
	r.Route("/contracts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermContractsRead)).Get("/", h.handleListContracts)
		r.With(middleware.RequirePermission(auth.PermContractsRead)).Get("/{contractID}", h.handleGetContract)
		r.With(middleware.RequirePermission(auth.PermContractsWrite)).Post("/", h.handleCreateContract)
		r.With(middleware.RequirePermission(auth.PermContractsWrite)).Put("/{contractID}", h.handleUpdateContract)
		r.With(middleware.RequirePermission(auth.PermContractsWrite)).Delete("/{contractID}", h.handleDeleteContract)
	})
}

type employeePayload struct {
	Matricule string           `json:"matricule"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Address   string           `json:"address"`
	Post      string           `json:"post"`
	Salary    *decimal.Decimal `json:"salary"`
	HireDate  string           `json:"hireDate"`
	EndDate   string           `json:"endDate"`
	Status    string           `json:"status"`
}

func (p employeePayload) toEmployee(v *shared.Validator) core.Employee {
	v.Required("lastName", p.LastName, "last name required")
	hireDate := optionalDate(v, "hireDate", p.HireDate)
	endDate := optionalDate(v, "endDate", p.EndDate)
	status := p.Status
	if status == "" {
		status = "active"
	}
	return core.Employee{
		Matricule: strings.TrimSpace(p.Matricule),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.TrimSpace(p.Email),
		Phone:     strings.TrimSpace(p.Phone),
		Address:   strings.TrimSpace(p.Address),
		Post:      strings.TrimSpace(p.Post),
		Salary:    p.Salary,
		HireDate:  hireDate,
		EndDate:   endDate,
		Status:    status,
	}
}

func optionalDate(v *shared.Validator, field, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	employee := payload.toEmployee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.InsertEmployee(r.Context(), employee)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "employee.create", "employee", id, employee.FullName())
	created, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	employee := payload.toEmployee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	employee.ID = employeeID

	if err := h.Store.UpdateEmployee(r.Context(), employee); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "employee.update", "employee", employeeID, "")
	updated, err := h.Store.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.Success(w, map[string]string{"id": employeeID}, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Store.DeleteEmployee(r.Context(), employeeID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "employee.delete", "employee", employeeID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.Store.ListDocuments(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "documents_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, documents, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if err := r.ParseMultipartForm(maxDocumentBytes * 2); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "document file required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	if header.Size > maxDocumentBytes {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "document exceeds maximum size", middleware.GetRequestID(r.Context()))
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil || len(data) == 0 || int64(len(data)) > maxDocumentBytes {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read document", middleware.GetRequestID(r.Context()))
		return
	}

	fileName := strings.TrimSpace(filepath.Base(header.Filename))
	if fileName == "" {
		fileName = "document.bin"
	}
	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	id, err := h.Store.InsertDocument(r.Context(), core.Document{
		EmployeeID:  employeeID,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    int64(len(data)),
		Data:        data,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_upload_failed", "failed to store document", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "employee.document.upload", "employee_document", id, fileName)
	api.Created(w, map[string]string{"id": id, "fileName": fileName}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	document, err := h.Store.GetDocument(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	}

	contentType := document.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(document.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document.Data); err != nil {
		log.Warn().Err(err).Str("documentId", document.ID).Msg("document download write failed")
	}
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	documentID := chi.URLParam(r, "documentID")

	if err := h.Store.DeleteDocument(r.Context(), documentID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "employee.document.delete", "employee_document", documentID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type clientPayload struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "clients_failed", "failed to list clients", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, clients, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.Store.GetClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "client not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, client, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.InsertClient(r.Context(), core.Client{
		Name:        strings.TrimSpace(payload.Name),
		ContactName: strings.TrimSpace(payload.ContactName),
		Email:       strings.TrimSpace(payload.Email),
		Phone:       strings.TrimSpace(payload.Phone),
		Address:     strings.TrimSpace(payload.Address),
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "client_create_failed", "failed to create client", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "client.create", "client", id, payload.Name)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	clientID := chi.URLParam(r, "clientID")

	var payload clientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	err := h.Store.UpdateClient(r.Context(), core.Client{
		ID:          clientID,
		Name:        strings.TrimSpace(payload.Name),
		ContactName: strings.TrimSpace(payload.ContactName),
		Email:       strings.TrimSpace(payload.Email),
		Phone:       strings.TrimSpace(payload.Phone),
		Address:     strings.TrimSpace(payload.Address),
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "client not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "client_update_failed", "failed to update client", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "client.update", "client", clientID, "")
	api.Success(w, map[string]string{"id": clientID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	clientID := chi.URLParam(r, "clientID")

	if err := h.Store.DeleteClient(r.Context(), clientID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "client not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "client_delete_failed", "failed to delete client", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "client.delete", "client", clientID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type contractPayload struct {
	ClientID      string          `json:"clientId"`
	Reference     string          `json:"reference"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	AgentCount    int             `json:"agentCount"`
	Status        string          `json:"status"`
}

func (p contractPayload) toContract(v *shared.Validator) core.Contract {
	v.Required("clientId", p.ClientID, "client id required")
	startDate := optionalDate(v, "startDate", p.StartDate)
	endDate := optionalDate(v, "endDate", p.EndDate)
	if startDate != nil && endDate != nil {
		v.DateOrder("startDate", *startDate, "endDate", *endDate)
	}
	status := p.Status
	if status == "" {
		status = "active"
	}
	return core.Contract{
		ClientID:      p.ClientID,
		Reference:     strings.TrimSpace(p.Reference),
		StartDate:     startDate,
		EndDate:       endDate,
		MonthlyAmount: p.MonthlyAmount,
		AgentCount:    p.AgentCount,
		Status:        status,
	}
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Store.ListContracts(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contracts_failed", "failed to list contracts", middleware.GetRequestID(r.Context()))
		return
	}

	// Client names are decorated on read; a dangling reference renders
	// as the unknown label instead of failing the listing.
	names, err := h.Store.ClientNameIndex(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contracts_failed", "failed to list contracts", middleware.GetRequestID(r.Context()))
		return
	}
	type contractView struct {
		core.Contract
		ClientName string `json:"clientName"`
	}
	views := make([]contractView, 0, len(contracts))
	for _, c := range contracts {
		name, ok := names[c.ClientID]
		if !ok {
			name = core.UnknownLabel
		}
		views = append(views, contractView{Contract: c, ClientName: name})
	}
	api.Success(w, views, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.Store.GetContract(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "contract not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, contract, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	contract := payload.toContract(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.InsertContract(r.Context(), contract)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contract_create_failed", "failed to create contract", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "contract.create", "contract", id, contract.Reference)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateContract(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	contractID := chi.URLParam(r, "contractID")

	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	contract := payload.toContract(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	contract.ID = contractID

	if err := h.Store.UpdateContract(r.Context(), contract); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "contract not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "contract_update_failed", "failed to update contract", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "contract.update", "contract", contractID, "")
	api.Success(w, map[string]string{"id": contractID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	contractID := chi.URLParam(r, "contractID")

	if err := h.Store.DeleteContract(r.Context(), contractID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "contract not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "contract_delete_failed", "failed to delete contract", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "contract.delete", "contract", contractID, "")
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
