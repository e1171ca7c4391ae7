package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-crm/meridian/internal/authz"
	"github.com/meridian-crm/meridian/internal/platform/httpx"
)

// Handler exposes login, token introspection and revocation endpoints.
type Handler struct {
	logger   *slog.Logger
	verifier *TokenVerifier
	checker  CredentialChecker
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, verifier *TokenVerifier, checker CredentialChecker) *Handler {
	return &Handler{
		logger:   logger,
		verifier: verifier,
		checker:  checker,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Get("/me", h.me)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"secret" validate:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type meResponse struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.checker.Check(r.Context(), req.Email, req.Secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "")
			return
		}
		h.logger.Error("check credentials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	token, err := h.verifier.Issue(*p)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.verifier.TTL().Seconds()),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{ID: p.ID, Role: p.Role})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	raw := bearerToken(r)
	if raw == "" {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	claims, err := h.verifier.ParseClaims(raw)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	if err := h.verifier.Revoke(r.Context(), claims); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
