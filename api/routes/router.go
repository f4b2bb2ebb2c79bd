package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendorahq/vendora-backend/api/controllers"
	ordercontrollers "github.com/vendorahq/vendora-backend/api/controllers/orders"
	"github.com/vendorahq/vendora-backend/api/middleware"
	checkoutsvc "github.com/vendorahq/vendora-backend/internal/checkout"
	"github.com/vendorahq/vendora-backend/internal/orders"
	products "github.com/vendorahq/vendora-backend/internal/products"
	"github.com/vendorahq/vendora-backend/pkg/config"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	"github.com/vendorahq/vendora-backend/pkg/logger"
	"github.com/vendorahq/vendora-backend/pkg/metrics"
	"github.com/vendorahq/vendora-backend/pkg/redis"
)

// Dependencies bundles everything the router needs wired.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Database    controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	ProductService  products.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.Database, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Idempotency, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.CheckoutService, logg))
			r.Get("/mine", ordercontrollers.ListMine(deps.OrdersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.OrdersService, logg))
			r.Put("/{orderId}/cancel", ordercontrollers.Cancel(deps.OrdersService, logg))
		})

		r.Get("/products/{productId}", controllers.GetProduct(deps.ProductService, logg))

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.RoleVendor), logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.VendorListProducts(deps.ProductService, logg))
				r.Post("/", controllers.VendorCreateProduct(deps.ProductService, logg))
				r.Patch("/{productId}", controllers.VendorUpdateProduct(deps.ProductService, logg))
				r.Delete("/{productId}", controllers.VendorDeleteProduct(deps.ProductService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.ListVendor(deps.OrdersService, logg))
				r.Put("/{orderId}/status", ordercontrollers.UpdateVendorShipping(deps.OrdersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Idempotency, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.ListAll(deps.OrdersService, logg))
			r.Put("/{orderId}/status", ordercontrollers.UpdateStatus(deps.OrdersService, logg))
			r.Put("/{orderId}/payment", ordercontrollers.UpdatePayment(deps.OrdersService, logg))
		})
	})

	return r
}
