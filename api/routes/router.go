package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-pricing/api/controllers"
	buynowcontrollers "github.com/angelmondragon/storefront-pricing/api/controllers/buynow"
	cartcontrollers "github.com/angelmondragon/storefront-pricing/api/controllers/cart"
	"github.com/angelmondragon/storefront-pricing/api/middleware"
	"github.com/angelmondragon/storefront-pricing/internal/buynow"
	"github.com/angelmondragon/storefront-pricing/internal/cart"
	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/db"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-pricing/pkg/redis"
)

// Cache is the redis surface used by the HTTP layer.
type Cache interface {
	pkgredis.Pinger
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache Cache,
	gatherer prometheus.Gatherer,
	cartService cart.Service,
	buyNowService buynow.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	couponPolicy := middleware.NewRateLimitPolicy(
		"coupon",
		cfg.RateLimit.CouponWindow,
		cfg.RateLimit.CouponUserLimit,
		cfg.RateLimit.CouponIPLimit,
	)
	currency := cfg.Pricing.CurrencyCode().String()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    cache,
		}))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(cache, cfg.Idempotency.TTL, logg))
			couponLimit := middleware.RateLimit(couponPolicy, cache, logg)

			r.Get("/cart", cartcontrollers.CartFetch(cartService, currency, logg))
			r.Delete("/cart", cartcontrollers.CartClear(cartService, currency, logg))
			r.Post("/cart/add", cartcontrollers.CartAddItem(cartService, currency, logg))
			r.Patch("/cart/update/{productId}", cartcontrollers.CartUpdateItem(cartService, currency, logg))
			r.Delete("/cart/remove/{productId}", cartcontrollers.CartRemoveItem(cartService, currency, logg))
			r.With(couponLimit).Post("/cart/apply-coupon", cartcontrollers.CartApplyCoupon(cartService, currency, logg))
			r.Delete("/cart/coupon", cartcontrollers.CartRemoveCoupon(cartService, currency, logg))
			r.Patch("/cart/shipping-method", cartcontrollers.CartSetShippingMethod(cartService, currency, logg))
			r.Patch("/cart/payment-method", cartcontrollers.CartSetPaymentMethod(cartService, currency, logg))

			r.Post("/buy-now", buynowcontrollers.BuyNowStart(buyNowService, currency, logg))
			r.Get("/buy-now", buynowcontrollers.BuyNowFetch(buyNowService, currency, logg))
			r.Delete("/buy-now", buynowcontrollers.BuyNowClear(buyNowService, logg))
			r.With(couponLimit).Post("/buy-now/apply-coupon", buynowcontrollers.BuyNowApplyCoupon(buyNowService, currency, logg))
			r.Delete("/buy-now/coupon", buynowcontrollers.BuyNowRemoveCoupon(buyNowService, currency, logg))
			r.Patch("/buy-now/shipping-method", buynowcontrollers.BuyNowSetShippingMethod(buyNowService, currency, logg))
			r.Patch("/buy-now/payment-method", buynowcontrollers.BuyNowSetPaymentMethod(buyNowService, currency, logg))
		})
	})

	return r
}
