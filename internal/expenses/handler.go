package expenses

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Handler manages expense HTTP endpoints. Everything except the category
// listing is admin-only.
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

// MountRoutes registers expense routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/categories", h.categories)

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/summary", h.summary)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]Category{"categories": Categories})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())

	var req ExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Create(r.Context(), current.ID, req)
	if err != nil {
		h.logger.Warn("create expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{}

	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	if startRaw != "" && endRaw != "" {
		start, err1 := time.Parse("2006-01-02", startRaw)
		end, err2 := time.Parse("2006-01-02", endRaw)
		if err1 != nil || err2 != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		filters.StartDate = &start
		filters.EndDate = &end
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category := Category(raw)
		filters.Category = &category
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
		h.logger.Error("list expenses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	period := shared.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = shared.PeriodMonth
	}

	summary, err := h.service.Summarize(r.Context(), period)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	expense, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "expense deleted successfully"})
}

func expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return id, true
}
