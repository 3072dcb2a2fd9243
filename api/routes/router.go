package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/denovbaraka/storefront-backend/api/controllers"
	"github.com/denovbaraka/storefront-backend/api/middleware"
	"github.com/denovbaraka/storefront-backend/internal/catalog"
	ordersvc "github.com/denovbaraka/storefront-backend/internal/orders"
	"github.com/denovbaraka/storefront-backend/pkg/config"
	"github.com/denovbaraka/storefront-backend/pkg/localstore"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
	pkgredis "github.com/denovbaraka/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store *localstore.Store,
	redisClient *pkgredis.Client,
	cartEngine controllers.CartEngine,
	catalogService catalog.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var storePinger controllers.Pinger
	if store != nil {
		storePinger = store
	}
	var redisPinger controllers.Pinger
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisPinger = redisClient
		idemStore = redisClient
	}

	adminOnly := middleware.AdminOnly(cfg.Admin.Password, logg)
	idempotent := middleware.Idempotency(idemStore, cfg.Redis.IdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storePinger, redisPinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{id}", controllers.GetProduct(catalogService, logg))

			r.With(adminOnly).Post("/", controllers.CreateProduct(catalogService, logg))
			r.With(adminOnly).Put("/{id}", controllers.UpdateProduct(catalogService, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteProduct(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartEngine, logg))
			r.Post("/items", controllers.AddCartItem(cartEngine, catalogService, logg))
			r.Delete("/items/{id}", controllers.RemoveCartItem(cartEngine, logg))
			r.Delete("/", controllers.ClearCart(cartEngine, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(idempotent).Post("/", controllers.Checkout(orderService, logg))
			r.Get("/{id}", controllers.GetOrder(orderService, logg))
			r.Put("/{id}/rating", controllers.RateOrder(orderService, logg))

			r.With(adminOnly).Get("/", controllers.ListOrders(orderService, logg))
			r.With(adminOnly).Put("/{id}/status", controllers.UpdateOrderStatus(orderService, logg))
		})

		r.Post("/admin/login", controllers.AdminLogin(cfg.Admin.Password, store, logg))
	})

	return r
}
