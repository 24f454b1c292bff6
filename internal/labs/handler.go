package labs

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/orders"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
)

// Handler manages lab order HTTP endpoints.
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

// MountRoutes registers lab order routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)

		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}/status", h.updateStatus)
		r.Put("/{id}/notes", h.updateNotes)

		r.Get("/prescriptions/{id}", h.getPrescription)
		r.Put("/prescriptions/{id}", h.updatePrescription)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		filters.Status = &status
	}
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if filters.Limit < 1 || filters.Limit > 500 {
		filters.Limit = 100
	}
	filters.Offset, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	list, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list lab orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	lab, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create lab order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, lab)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid lab order id")
	if !ok {
		return
	}
	lab, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, lab)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid lab order id")
	if !ok {
		return
	}

	status := Status(r.URL.Query().Get("status"))
	if status == "" {
		var body struct {
			Status Status `json:"status"`
		}
		if err := httpx.DecodeJSON(r, &body); err != nil || body.Status == "" {
			httpx.Error(w, http.StatusBadRequest, "status is required")
			return
		}
		status = body.Status
	}

	if err := h.service.UpdateStatus(r.Context(), id, status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "lab order status updated successfully"})
}

func (h *Handler) updateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid lab order id")
	if !ok {
		return
	}

	notes := r.URL.Query().Get("notes")
	if notes == "" {
		var req NotesRequest
		if err := httpx.DecodeJSON(r, &req); err != nil || req.Notes == "" {
			httpx.Error(w, http.StatusBadRequest, "notes is required")
			return
		}
		notes = req.Notes
	}

	if err := h.service.UpdateNotes(r.Context(), id, notes); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "lab order notes updated successfully"})
}

func (h *Handler) getPrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid prescription id")
	if !ok {
		return
	}
	p, err := h.service.GetPrescription(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) updatePrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid prescription id")
	if !ok {
		return
	}

	var req orders.PrescriptionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.UpdatePrescription(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func pathID(w http.ResponseWriter, r *http.Request, detail string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, detail)
		return 0, false
	}
	return id, true
}
