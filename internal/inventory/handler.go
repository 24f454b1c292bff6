package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
)

// Handler manages inventory HTTP endpoints.
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

// MountRoutes registers inventory routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)
		r.Get("/", h.list)
		r.Get("/low-stock", h.lowStock)
		r.Get("/stats", h.stats)
		r.Get("/{id}", h.get)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Patch("/{id}/stock", h.adjustStock)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("max_stock"); raw != "" {
		maxStock, err := strconv.Atoi(raw)
		if err != nil || maxStock < 0 {
			httpx.Error(w, http.StatusBadRequest, "invalid max_stock")
			return
		}
		filters.MaxStock = &maxStock
	}

	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if filters.Limit < 1 || filters.Limit > 500 {
		filters.Limit = 100
	}
	filters.Offset, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	products, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		h.logger.Error("list low stock", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("inventory stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req StockAdjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.service.AdjustStock(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
