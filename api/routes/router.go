package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avilamfg/exhibit-backend/api/controllers"
	"github.com/avilamfg/exhibit-backend/api/middleware"
	adminsvc "github.com/avilamfg/exhibit-backend/internal/admins"
	inquirysvc "github.com/avilamfg/exhibit-backend/internal/inquiries"
	mediasvc "github.com/avilamfg/exhibit-backend/internal/media"
	productsvc "github.com/avilamfg/exhibit-backend/internal/products"
	settingssvc "github.com/avilamfg/exhibit-backend/internal/settings"
	"github.com/avilamfg/exhibit-backend/pkg/auth/session"
	"github.com/avilamfg/exhibit-backend/pkg/config"
	"github.com/avilamfg/exhibit-backend/pkg/enums"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/avilamfg/exhibit-backend/pkg/metrics"
	"github.com/avilamfg/exhibit-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	Sessions       session.Checker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Inquiries inquirysvc.Service
	Products  productsvc.Service
	Admins    adminsvc.Service
	Settings  settingssvc.Service
	Media     mediasvc.Service

	ReadyChecks map[string]controllers.Pinger
}

// NewRouter wires the middleware stack and all route groups. Admin routes sit
// behind a single Auth middleware; destructive inquiry deletion additionally
// requires the super-admin role.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(params.HTTPMetrics),
	)

	inquiryPolicy := middleware.NewRateLimitPolicy(
		"inquiry",
		cfg.RateLimit.InquiryWindow,
		cfg.RateLimit.InquiryIPLimit,
		0,
	)
	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.ReadyChecks))
	})

	if params.MetricsHandler != nil {
		r.Handle("/metrics", params.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Get("/products", controllers.ListProducts(params.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(params.Products, logg))
		r.With(middleware.RateLimit(inquiryPolicy, params.Redis, logg)).
			Post("/inquiries", controllers.CreateInquiry(params.Inquiries, logg))

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, params.Redis, logg)).
				Post("/auth/login", controllers.AdminLogin(params.Admins, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, params.Sessions, logg))

				r.Post("/auth/logout", controllers.AdminLogout(params.Admins, logg))

				r.Route("/inquiries", func(r chi.Router) {
					r.Get("/", controllers.ListInquiries(params.Inquiries, logg))
					r.Get("/{inquiryId}", controllers.GetInquiry(params.Inquiries, logg))
					r.Put("/{inquiryId}/status", controllers.UpdateInquiryStatus(params.Inquiries, logg))
					r.With(middleware.RequireRole(enums.AdminRoleSuperAdmin.String(), logg)).
						Delete("/{inquiryId}", controllers.DeleteInquiry(params.Inquiries, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(params.Products, logg))
					r.Post("/", controllers.CreateProduct(params.Products, logg))
					r.Put("/{productId}", controllers.UpdateProduct(params.Products, logg))
					r.Delete("/{productId}", controllers.DeleteProduct(params.Products, logg))
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/{settingKey}", controllers.GetSetting(params.Settings, logg))
					r.Put("/{settingKey}", controllers.PutSetting(params.Settings, logg))
					r.Delete("/{settingKey}", controllers.DeleteSetting(params.Settings, logg))
				})

				r.Post("/media/presign", controllers.PresignUpload(params.Media, logg))
			})
		})
	})

	return r
}
