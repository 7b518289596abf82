package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/teamcook/account-api/app/metrics"
	"github.com/teamcook/account-api/internal/api"
	"github.com/teamcook/account-api/internal/api/auth"
	"github.com/teamcook/account-api/internal/types"
)

type Handler struct {
	service Service
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewHandler(service Service, m *metrics.AppMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.SignupRequestsTotal.Add(ctx, 1)

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" || req.PW == "" || req.Name == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "id, pw and name are required")
		return
	}

	role, err := h.service.Signup(ctx, req.ID, req.PW, req.Name, req.SecretKey)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidEmail):
			api.ErrorResponse(w, r, http.StatusBadRequest, "id must be a valid email address")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, "id already exists")
		default:
			h.logger.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, SignupResponse{
		Message: "signup successful",
		Role:    role,
	})
}

// Login handles POST /login. Wrong password and unknown id produce the
// identical 401 body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.LoginRequestsTotal.Add(ctx, 1)

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, role, err := h.service.Login(ctx, req.ID, req.PW)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			h.metrics.AuthFailuresTotal.Add(ctx, 1)
			api.ErrorResponse(w, r, http.StatusUnauthorized, "invalid id or password")
			return
		}
		h.logger.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        role,
	})
}

// ReadSelf handles GET /users/me.
func (h *Handler) ReadSelf(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		api.UnauthenticatedResponse(w, r)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.ReadSelf(account))
}

// DeleteSelf handles DELETE /users/me.
func (h *Handler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, ok := auth.AccountFromContext(ctx)
	if !ok {
		api.UnauthenticatedResponse(w, r)
		return
	}

	var req DeleteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.service.DeleteSelf(ctx, account, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrUnauthorized) {
			h.metrics.AuthFailuresTotal.Add(ctx, 1)
			api.ErrorResponse(w, r, http.StatusUnauthorized, "password does not match")
			return
		}
		h.logger.ErrorContext(ctx, "Account deletion failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, DeleteResponse{Message: message})
}
