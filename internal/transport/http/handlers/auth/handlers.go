package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/komla9992-max/gestion-sub000/internal/domain/audit"
	"github.com/komla9992-max/gestion-sub000/internal/domain/auth"
	"github.com/komla9992-max/gestion-sub000/internal/platform/metrics"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/api"
	"github.com/komla9992-max/gestion-sub000/internal/transport/http/middleware"
)

type Handler struct {
	Service  *auth.Service
	Audit    *audit.Recorder
	Metrics  *metrics.Metrics
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(service *auth.Service, auditRec *audit.Recorder, m *metrics.Metrics, secret string, ttl time.Duration) *Handler {
	return &Handler{Service: service, Audit: auditRec, Metrics: m, Secret: secret, TokenTTL: ttl}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Get("/", h.handleListUsers)
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/", h.handleCreateUser)
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/{userID}/password", h.handleResetPassword)
		r.With(middleware.RequirePermission(auth.PermUsersManage)).Post("/{userID}/active", h.handleSetActive)
	})
	r.Get("/auth/me", h.handleMe)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Service.Authenticate(r.Context(), payload.Identifier, payload.Password)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.AuthAttempts.WithLabelValues("failure").Inc()
		}
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid identifier or password", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.AuthAttempts.WithLabelValues("success").Inc()
	}
	h.Audit.Record(r.Context(), user.ID, "auth.login", "user", user.ID, "")
	api.Success(w, map[string]any{
		"token": token,
		"user":  user,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	user, err := h.Service.Get(r.Context(), userCtx.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

type createUserRequest struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())

	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password required", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Service.CreateUser(r.Context(), auth.CreateUserInput{
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Password:    payload.Password,
		Role:        payload.Role,
		Permissions: payload.Permissions,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "email already in use", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "user.create", "user", user.ID, user.Email)
	api.Created(w, user, middleware.GetRequestID(r.Context()))
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "password required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.ResetPassword(r.Context(), userID, payload.Password); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "password_reset_failed", "failed to reset password", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "user.password.reset", "user", userID, "")
	api.Success(w, map[string]string{"status": "reset"}, middleware.GetRequestID(r.Context()))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SetActive(r.Context(), userID, payload.Active); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update user", middleware.GetRequestID(r.Context()))
		return
	}

	h.Audit.Record(r.Context(), actor.UserID, "user.active.set", "user", userID, "")
	api.Success(w, map[string]bool{"active": payload.Active}, middleware.GetRequestID(r.Context()))
}
