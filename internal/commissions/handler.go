package commissions

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/shared"
)

// Handler manages commission HTTP endpoints. Non-admin callers are scoped to
// their own figures; the leaderboard is admin-only.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  auth.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, authmw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers commission routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireUser)
		r.Get("/calculate", h.calculate)
		r.Get("/summary", h.summary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Get("/top-performers", h.topPerformers)
	})
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())

	start, err1 := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	end, err2 := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err1 != nil || err2 != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	var userID *int64
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		userID = &id
	}
	if !current.IsAdmin {
		userID = &current.ID
	}

	report, err := h.service.Calculate(r.Context(), start, end, userID)
	if err != nil {
		h.logger.Error("calculate commissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	current := auth.UserFromContext(r.Context())

	period := shared.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = shared.PeriodMonth
	}

	var userID *int64
	if !current.IsAdmin {
		userID = &current.ID
	}

	summary, err := h.service.Summarize(r.Context(), period, userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) topPerformers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 5
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

	report, err := h.service.TopPerformers(r.Context(), start, end, limit)
	if err != nil {
		h.logger.Error("top performers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
