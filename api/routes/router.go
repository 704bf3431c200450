package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhruvpatel3d/printquote-backend/api/controllers"
	"github.com/dhruvpatel3d/printquote-backend/api/middleware"
	"github.com/dhruvpatel3d/printquote-backend/internal/auth"
	"github.com/dhruvpatel3d/printquote-backend/internal/catalog"
	"github.com/dhruvpatel3d/printquote-backend/internal/orderlines"
	"github.com/dhruvpatel3d/printquote-backend/internal/quotes"
	"github.com/dhruvpatel3d/printquote-backend/internal/settings"
	"github.com/dhruvpatel3d/printquote-backend/pkg/auth/session"
	"github.com/dhruvpatel3d/printquote-backend/pkg/config"
	"github.com/dhruvpatel3d/printquote-backend/pkg/db"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
	"github.com/dhruvpatel3d/printquote-backend/pkg/redis"
)

type healthPinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry prometheus.Gatherer

	AuthService     auth.Service
	CatalogService  catalog.Service
	SettingsService settings.Service
	LinesService    orderlines.Service
	QuotesService   quotes.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger(deps.Redis)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/pricing/options", controllers.PricingOptions(deps.CatalogService, logg))

		r.Route("/lines", func(r chi.Router) {
			r.Post("/", controllers.CreateLine(deps.LinesService, logg))
			r.Get("/", controllers.ListLines(deps.LinesService, logg))
			r.Post("/refresh", controllers.RefreshLines(deps.LinesService, logg))
			r.Patch("/{lineId}", controllers.UpdateLine(deps.LinesService, logg))
			r.Delete("/{lineId}", controllers.DeleteLine(deps.LinesService, logg))
		})

		r.Route("/quote", func(r chi.Router) {
			r.Get("/summary", controllers.QuoteSummary(deps.QuotesService, logg))
			r.Get("/peek-number", controllers.QuotePeekNumber(deps.QuotesService, logg))
			r.Post("/generate", controllers.QuoteGenerate(deps.QuotesService, logg))
		})

		r.Get("/quotes/{number}/pdf", controllers.QuotePDF(deps.QuotesService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.AdminListMaterials(deps.CatalogService, logg))
			r.Post("/", controllers.AdminCreateMaterial(deps.CatalogService, logg))
			r.Put("/{materialId}", controllers.AdminUpdateMaterial(deps.CatalogService, logg))
			r.Delete("/{materialId}", controllers.AdminDeleteMaterial(deps.CatalogService, logg))
		})

		r.Route("/finishes", func(r chi.Router) {
			r.Get("/", controllers.AdminListFinishes(deps.CatalogService, logg))
			r.Post("/", controllers.AdminCreateFinish(deps.CatalogService, logg))
			r.Put("/{finishId}", controllers.AdminUpdateFinish(deps.CatalogService, logg))
			r.Delete("/{finishId}", controllers.AdminDeleteFinish(deps.CatalogService, logg))
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/slabs", controllers.AdminGetSlabs(deps.SettingsService, logg))
			r.Put("/slabs", controllers.AdminPutSlabs(deps.SettingsService, logg))
			r.Get("/regular-discount", controllers.AdminGetRegularDiscount(deps.SettingsService, logg))
			r.Put("/regular-discount", controllers.AdminPutRegularDiscount(deps.SettingsService, logg))
			r.Get("/tax-rates", controllers.AdminGetTaxRates(deps.SettingsService, logg))
			r.Put("/tax-rates", controllers.AdminPutTaxRates(deps.SettingsService, logg))
			r.Get("/minimum-price", controllers.AdminGetMinimumPrice(deps.SettingsService, logg))
			r.Put("/minimum-price", controllers.AdminPutMinimumPrice(deps.SettingsService, logg))
			r.Get("/charges", controllers.AdminGetCharges(deps.SettingsService, logg))
			r.Put("/charges", controllers.AdminPutCharges(deps.SettingsService, logg))
			r.Get("/bank-details", controllers.AdminGetBankDetails(deps.SettingsService, logg))
			r.Put("/bank-details", controllers.AdminPutBankDetails(deps.SettingsService, logg))
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", controllers.AdminListQuotations(deps.QuotesService, logg))
			r.Get("/{number}", controllers.AdminGetQuotation(deps.QuotesService, logg))
			r.Delete("/{number}", controllers.AdminDeleteQuotation(deps.QuotesService, logg))
		})
	})

	return r
}

// redisPinger avoids passing a typed nil into the health controller.
func redisPinger(client *redis.Client) healthPinger {
	if client == nil {
		return nil
	}
	return client
}
