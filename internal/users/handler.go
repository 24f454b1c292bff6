package users

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
)

// Handler manages user HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		authmw:    authmw,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)
		r.Get("/me", h.me)
		r.Put("/me", h.updateMe)
		r.Delete("/me", h.deleteMe)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Get("/", h.list)
		r.Patch("/admin/{id}/toggle", h.toggleAdmin)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("register user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())
	user, err := h.service.Get(r.Context(), current.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())

	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Update(r.Context(), current.ID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())
	if err := h.service.Delete(r.Context(), current.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 100
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if offset < 0 {
		offset = 0
	}

	result, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if result == nil {
		result = []User{}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.service.ToggleAdmin(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	state := "disabled"
	if user.IsAdmin {
		state = "enabled"
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("admin status %s for user %s", state, user.Username),
	})
}
