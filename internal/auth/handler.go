package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Handler wires HTTP endpoints for token issuance.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/token", h.handleToken)
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        tokenUser `json:"user"`
}

type tokenUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// handleToken implements the login endpoint. Credentials arrive as form
// fields to match OAuth2 password-flow clients.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.Error(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	token, err := h.service.IssueToken(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User: tokenUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			IsAdmin:  user.IsAdmin,
		},
	})
}
