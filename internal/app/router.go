package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/optica-pos/optica-pos/internal/auth"
	"github.com/optica-pos/optica-pos/internal/commissions"
	"github.com/optica-pos/optica-pos/internal/expenses"
	"github.com/optica-pos/optica-pos/internal/inventory"
	"github.com/optica-pos/optica-pos/internal/labs"
	"github.com/optica-pos/optica-pos/internal/observability"
	"github.com/optica-pos/optica-pos/internal/orders"
	"github.com/optica-pos/optica-pos/internal/platform/httpx"
	"github.com/optica-pos/optica-pos/internal/reports"
	"github.com/optica-pos/optica-pos/internal/users"
)

// RouterDeps aggregates everything the router needs.
type RouterDeps struct {
	Logger  *slog.Logger
	Config  *Config
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
}

// NewRouter assembles the HTTP surface: repositories, services, handlers,
// and the middleware stack.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  deps.Logger,
		Config:  deps.Config,
		Metrics: deps.Metrics,
	}) {
		r.Use(mw)
	}

	tokens := auth.NewTokenStore(deps.Redis, "optica_token", deps.Config.TokenTTL)
	authService := auth.NewService(auth.NewRepository(deps.Pool), tokens)
	authmw := auth.Middleware{Service: authService, Logger: deps.Logger}
	authHandler := auth.NewHandler(deps.Logger, authService)

	userService := users.NewService(users.NewRepository(deps.Pool))
	userHandler := users.NewHandler(deps.Logger, userService, authmw)

	inventoryService := inventory.NewService(inventory.NewRepository(deps.Pool))
	inventoryHandler := inventory.NewHandler(deps.Logger, inventoryService, authmw)

	orderService := orders.NewService(orders.NewRepository(deps.Pool))
	orderHandler := orders.NewHandler(deps.Logger, orderService, inventoryService, authmw)

	labService := labs.NewService(labs.NewRepository(deps.Pool))
	labHandler := labs.NewHandler(deps.Logger, labService, authmw)

	expenseService := expenses.NewService(expenses.NewRepository(deps.Pool))
	expenseHandler := expenses.NewHandler(deps.Logger, expenseService, authmw)

	reportService := reports.NewService(reports.NewRepository(deps.Pool))
	reportHandler := reports.NewHandler(deps.Logger, reportService, authmw)

	commissionService := commissions.NewService(commissions.NewRepository(deps.Pool), deps.Config.CommissionRate)
	commissionHandler := commissions.NewHandler(deps.Logger, commissionService, authmw)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			authHandler.MountRoutes(r)
			userHandler.MountRoutes(r)
		})
		r.Route("/pos", orderHandler.MountRoutes)
		r.Route("/inventory", inventoryHandler.MountRoutes)
		r.Route("/lab-orders", labHandler.MountRoutes)
		r.Route("/reports", reportHandler.MountRoutes)
		r.Route("/commissions", commissionHandler.MountRoutes)
		r.Route("/expenses", expenseHandler.MountRoutes)
	})

	return r
}
