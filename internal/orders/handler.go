package orders

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/inventory"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
)

// Handler manages point-of-sale HTTP endpoints: orders plus the product
// views the till needs.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	products  *inventory.Service
	authmw    auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, products *inventory.Service, authmw auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		products:  products,
		authmw:    authmw,
		validator: validator.New(),
	}
}

// MountRoutes registers point-of-sale routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)

		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Post("/products", h.createProduct)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Put("/orders/{id}/status", h.updateStatus)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filters := inventory.ListFilters{Search: r.URL.Query().Get("search")}
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if filters.Limit < 1 || filters.Limit > 500 {
		filters.Limit = 100
	}
	filters.Offset, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	products, err := h.products.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid product id")
	if !ok {
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req inventory.ProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.products.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())

	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.Create(r.Context(), current.ID, req)
	if err != nil {
		h.logger.Warn("create order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if offset < 0 {
		offset = 0
	}

	list, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid order id")
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "invalid order id")
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
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "order status updated successfully"})
}

func pathID(w http.ResponseWriter, r *http.Request, detail string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, detail)
		return 0, false
	}
	return id, true
}
