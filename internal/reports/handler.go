package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/inventory"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Handler manages report HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  auth.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)
		r.Get("/sales/daily", h.daily)
		r.Get("/sales/monthly", h.monthly)
		r.Get("/sales/top-products", h.topProducts)
		r.Get("/sales/summary", h.summary)
		r.Get("/inventory/movement", h.movement)
		r.Get("/inventory/low-stock", h.lowStock)
	})
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		day = parsed
	}

	report, err := h.service.Daily(r.Context(), day)
	if err != nil {
		h.logger.Error("daily sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(r.URL.Query().Get("year"))
	month, err2 := strconv.Atoi(r.URL.Query().Get("month"))
	if err1 != nil || err2 != nil {
		httpx.Error(w, http.StatusBadRequest, "year and month are required")
		return
	}

	report, err := h.service.Monthly(r.Context(), year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	var start, end *time.Time
	startRaw := r.URL.Query().Get("start_date")
	endRaw := r.URL.Query().Get("end_date")
	if startRaw != "" && endRaw != "" {
		s, err1 := time.Parse("2006-01-02", startRaw)
		e, err2 := time.Parse("2006-01-02", endRaw)
		if err1 != nil || err2 != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		start, end = &s, &e
	}

	report, err := h.service.TopProducts(r.Context(), start, end, limit)
	if err != nil {
		h.logger.Error("top products report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	period := shared.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = shared.PeriodWeek
	}

	report, err := h.service.Summary(r.Context(), period)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) movement(w http.ResponseWriter, r *http.Request) {
	start, err1 := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	end, err2 := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err1 != nil || err2 != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	report, err := h.service.Movement(r.Context(), start, end)
	if err != nil {
		h.logger.Error("inventory movement report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))
	if threshold < 1 {
		threshold = inventory.LowStockThreshold
	}

	report, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		h.logger.Error("low stock report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
