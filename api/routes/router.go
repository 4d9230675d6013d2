package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mealbridge/mealbridge-backend/api/controllers"
	"github.com/mealbridge/mealbridge-backend/api/middleware"
	authsvc "github.com/mealbridge/mealbridge-backend/internal/auth"
	"github.com/mealbridge/mealbridge-backend/internal/orders"
	"github.com/mealbridge/mealbridge-backend/internal/realtime"
	"github.com/mealbridge/mealbridge-backend/internal/reroutes"
	"github.com/mealbridge/mealbridge-backend/internal/shelters"
	"github.com/mealbridge/mealbridge-backend/pkg/auth/session"
	"github.com/mealbridge/mealbridge-backend/pkg/config"
	"github.com/mealbridge/mealbridge-backend/pkg/db"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/logger"
	"github.com/mealbridge/mealbridge-backend/pkg/metrics"
	"github.com/mealbridge/mealbridge-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.Checker,
	authService authsvc.Service,
	ordersService orders.Service,
	sheltersRepo shelters.Repository,
	reroutesService reroutes.Service,
	hub *realtime.Hub,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.Checkout.FrontendURL),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/shelter-auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.ShelterAuthLogin(authService, logg))
	})

	r.Route("/api/order", func(r chi.Router) {
		// Open endpoints: the admin board, the payment callback and the
		// donation assignment tool live outside the session guard.
		r.Get("/list", controllers.OrderList(ordersService, logg))
		r.Post("/status", controllers.OrderStatusUpdate(ordersService, logg))
		r.Post("/verify", controllers.OrderVerify(ordersService, logg))
		r.Post("/assign-shelter", controllers.OrderAssignShelter(ordersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/userorders", controllers.OrderUserOrders(ordersService, logg))
			r.Post("/place", controllers.OrderPlace(ordersService, logg))
			r.Post("/placecod", controllers.OrderPlaceCOD(ordersService, logg))
			r.Post("/cancel_order", controllers.OrderCancel(ordersService, logg))
			r.Post("/claim", controllers.OrderClaim(ordersService, logg))
			r.Post("/rate", controllers.OrderRate(ordersService, logg))
			r.Get("/impact", controllers.OrderImpact(ordersService, logg))

			// No driver-role guard here: any account may ask and
			// non-drivers simply get an empty list.
			r.Get("/driver/my", controllers.DriverMyOrders(ordersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.MemberRoleDriver))
				r.Get("/driver/available", controllers.DriverAvailable(ordersService, logg))
				r.Post("/driver/claim", controllers.DriverClaim(ordersService, logg))
				r.Post("/driver/delivered", controllers.DriverDelivered(ordersService, logg))
			})
		})
	})

	r.Route("/api/realtime", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Get("/stream", controllers.RealtimeStream(hub, logg))
		// Claiming over the realtime channel is the same operation as the
		// REST claim; both race on the conditional update.
		r.With(middleware.Idempotency(redisClient, logg)).Post("/claim", controllers.OrderClaim(ordersService, logg))
	})

	r.Route("/api/shelter", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(logg, enums.MemberRoleShelter))
		r.Use(middleware.ShelterContext(logg))

		r.Get("/me", controllers.ShelterMe(sheltersRepo, logg))
		r.Get("/orders/pending", controllers.ShelterPendingOrders(reroutesService, logg))
		r.Post("/orders/{rerouteId}/accept", controllers.ShelterAcceptOrder(reroutesService, logg))
		r.Post("/orders/{rerouteId}/reject", controllers.ShelterRejectOrder(reroutesService, logg))
		r.Get("/history", controllers.ShelterHistory(reroutesService, logg))
		r.Get("/stats", controllers.ShelterStats(reroutesService, logg))
	})

	return r
}
