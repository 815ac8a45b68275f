package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefrontlabs/storefront-backend/api/controllers"
	"github.com/storefrontlabs/storefront-backend/api/middleware"
	"github.com/storefrontlabs/storefront-backend/internal/auth"
	cartsvc "github.com/storefrontlabs/storefront-backend/internal/cart"
	"github.com/storefrontlabs/storefront-backend/internal/catalog"
	"github.com/storefrontlabs/storefront-backend/internal/orders"
	usersvc "github.com/storefrontlabs/storefront-backend/internal/users"
	"github.com/storefrontlabs/storefront-backend/pkg/auth/session"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/db"
	"github.com/storefrontlabs/storefront-backend/pkg/logger"
	"github.com/storefrontlabs/storefront-backend/pkg/metrics"
	redisclient "github.com/storefrontlabs/storefront-backend/pkg/redis"
)

type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              *db.Client
	Redis           *redisclient.Client
	SessionManager  *session.Manager
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	AuthService    auth.Service
	CatalogService catalog.Service
	CartService    cartsvc.Service
	OrderService   orders.Service
	UserService    usersvc.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics.Middleware)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.SessionManager, logg)).
				Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		// catalog reads are public; everything else requires a session
		r.Get("/categories", controllers.CategoryList(deps.CatalogService, logg))
		r.Get("/categories/{categoryId}", controllers.CategoryGet(deps.CatalogService, logg))
		r.Get("/products", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/products/{productId}", controllers.ProductGet(deps.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

			r.Post("/categories", controllers.CategoryCreate(deps.CatalogService, logg))
			r.Put("/categories/{categoryId}", controllers.CategoryUpdate(deps.CatalogService, logg))
			r.Delete("/categories/{categoryId}", controllers.CategoryDelete(deps.CatalogService, logg))

			r.Post("/products", controllers.ProductCreate(deps.CatalogService, logg))
			r.Put("/products/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
			r.Delete("/products/{productId}", controllers.ProductDelete(deps.CatalogService, logg))

			r.Route("/carts", func(r chi.Router) {
				r.Post("/", controllers.CartCreate(deps.CartService, logg))
				r.Get("/{cartId}", controllers.CartGet(deps.CartService, logg))
				r.Delete("/{cartId}", controllers.CartDelete(deps.CartService, logg))
				r.Post("/{cartId}/items", controllers.CartItemAdd(deps.CartService, logg))
				r.Put("/{cartId}/items/{itemId}", controllers.CartItemUpdate(deps.CartService, logg))
				r.Delete("/{cartId}/items/{itemId}", controllers.CartItemRemove(deps.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(deps.OrderService, logg))
				r.Get("/", controllers.OrderList(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.OrderGet(deps.OrderService, logg))
				r.Put("/{orderId}", controllers.OrderUpdateStatus(deps.OrderService, logg))
				r.Delete("/{orderId}", controllers.OrderCancel(deps.OrderService, logg))
			})

			r.Post("/order-statuses", controllers.OrderStatusCreate(deps.OrderService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/{userId}", controllers.UserGet(deps.UserService, logg))
				r.Put("/{userId}", controllers.UserUpdate(deps.UserService, logg))
				r.Delete("/{userId}", controllers.UserDelete(deps.UserService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/", controllers.AddressCreate(deps.UserService, logg))
				r.Get("/{addressId}", controllers.AddressGet(deps.UserService, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(deps.UserService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(deps.UserService, logg))
			})
		})
	})

	return r
}
