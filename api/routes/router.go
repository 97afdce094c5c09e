package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giftwheel/giftwheel-backend/api/controllers"
	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/internal/events"
	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/internal/gifttemplates"
	"github.com/giftwheel/giftwheel-backend/internal/households"
	"github.com/giftwheel/giftwheel-backend/internal/identity"
	"github.com/giftwheel/giftwheel-backend/internal/products"
	"github.com/giftwheel/giftwheel-backend/internal/tenancy"
	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/internal/wishlists"
	"github.com/giftwheel/giftwheel-backend/pkg/config"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
	"github.com/giftwheel/giftwheel-backend/pkg/metrics"
	"github.com/giftwheel/giftwheel-backend/pkg/redis"
)

// identityProvider is the slice of the IdP client the router wires into the
// auth endpoints and the bearer middleware.
type identityProvider interface {
	controllers.TokenBroker
	Introspect(ctx context.Context, token string) (*idp.Introspection, error)
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	IdP             identityProvider
	Identity        identity.Service
	TenantResolver  tenancy.Resolver
	Users           users.Service
	Households      households.Service
	Events          events.Service
	Products        products.Service
	GiftOrders      giftorders.Service
	GiftTemplates   gifttemplates.Service
	Wishlists       wishlists.Service
	RedisClient     *redis.Client
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
	HealthChecks    map[string]controllers.Pinger
}

// NewRouter assembles the chi route tree: public auth/token endpoints, then
// the bearer-guarded tree, then the household-scoped tree.
func NewRouter(d Deps) http.Handler {
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.Healthz(logg, d.HealthChecks))
	if d.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	tokenPolicy := middleware.NewAuthRateLimitPolicy(
		"token",
		d.Config.AuthRateLimit.Window,
		d.Config.AuthRateLimit.IPLimit,
	)

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(tokenPolicy, d.RedisClient, logg)).
			Post("/token", controllers.AuthToken(d.IdP, logg))
		r.With(middleware.AuthRateLimit(tokenPolicy, d.RedisClient, logg)).
			Post("/refresh", controllers.AuthRefresh(d.IdP, logg))
		r.With(middleware.Auth(d.IdP, d.Identity, logg)).
			Get("/me", controllers.AuthMe(d.Users, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.IdP, d.Identity, logg))

		// Household management works on explicit ids, before any active
		// household is resolved.
		r.Route("/households", func(r chi.Router) {
			r.Get("/", controllers.HouseholdList(d.Households, logg))
			r.Post("/", controllers.HouseholdCreate(d.Households, logg))
			r.Route("/{householdId}", func(r chi.Router) {
				r.Get("/", controllers.HouseholdDetail(d.Households, logg))
				r.Patch("/", controllers.HouseholdRename(d.Households, logg))
				r.Delete("/", controllers.HouseholdDelete(d.Households, logg))
				r.Route("/members", func(r chi.Router) {
					r.Get("/", controllers.HouseholdMembers(d.Households, logg))
					r.Post("/", controllers.HouseholdAddMember(d.Households, logg))
					r.Delete("/{userId}", controllers.HouseholdRemoveMember(d.Households, logg))
				})
			})
		})

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.AuthMe(d.Users, logg))
			r.Patch("/", controllers.UserUpdateMe(d.Users, logg))
		})

		// Everything below runs against the caller's active household.
		r.Group(func(r chi.Router) {
			r.Use(middleware.HouseholdContext(d.TenantResolver, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.UserList(d.Users, logg))
				r.Post("/", controllers.UserCreate(d.Users, logg))
				r.Patch("/{userId}", controllers.UserUpdateMember(d.Users, logg))
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", controllers.EventList(d.Events, logg))
				r.Post("/", controllers.EventCreate(d.Events, logg))
				r.Route("/{eventId}", func(r chi.Router) {
					r.Get("/", controllers.EventDetail(d.Events, logg))
					r.Patch("/", controllers.EventUpdate(d.Events, logg))
					r.Delete("/", controllers.EventDelete(d.Events, logg))
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(d.Products, logg))
				r.Post("/", controllers.ProductCreate(d.Products, logg))
				r.Route("/{productId}", func(r chi.Router) {
					r.Get("/", controllers.ProductDetail(d.Products, logg))
					r.Patch("/", controllers.ProductUpdate(d.Products, logg))
					r.Delete("/", controllers.ProductDelete(d.Products, logg))
				})
			})

			r.Route("/gift-orders", func(r chi.Router) {
				r.Get("/", controllers.GiftOrderList(d.GiftOrders, logg))
				r.Post("/", controllers.GiftOrderCreate(d.GiftOrders, logg))
				r.Route("/{orderId}", func(r chi.Router) {
					r.Get("/", controllers.GiftOrderDetail(d.GiftOrders, logg))
					r.Patch("/", controllers.GiftOrderUpdate(d.GiftOrders, logg))
					r.Delete("/", controllers.GiftOrderDelete(d.GiftOrders, logg))
					r.Route("/items", func(r chi.Router) {
						r.Post("/", controllers.GiftItemAdd(d.GiftOrders, logg))
						r.Patch("/{itemId}", controllers.GiftItemUpdate(d.GiftOrders, logg))
						r.Delete("/{itemId}", controllers.GiftItemDelete(d.GiftOrders, logg))
					})
				})
			})

			r.Get("/gifts", controllers.GiftList(d.GiftOrders, logg))

			r.Route("/gift-templates", func(r chi.Router) {
				r.Get("/", controllers.GiftTemplateList(d.GiftTemplates, logg))
				r.Post("/", controllers.GiftTemplateCreate(d.GiftTemplates, logg))
				r.Route("/{templateId}", func(r chi.Router) {
					r.Get("/", controllers.GiftTemplateDetail(d.GiftTemplates, logg))
					r.Patch("/", controllers.GiftTemplateUpdate(d.GiftTemplates, logg))
					r.Delete("/", controllers.GiftTemplateDelete(d.GiftTemplates, logg))
					r.Post("/items", controllers.GiftTemplateAddItem(d.GiftTemplates, logg))
					r.Delete("/items/{itemId}", controllers.GiftTemplateRemoveItem(d.GiftTemplates, logg))
					r.Post("/import", controllers.GiftTemplateImport(d.GiftTemplates, logg))
				})
			})

			r.Route("/wishlists", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(d.Wishlists, logg))
				r.Post("/", controllers.WishlistCreate(d.Wishlists, logg))
				r.Patch("/{itemId}", controllers.WishlistUpdate(d.Wishlists, logg))
				r.Delete("/{itemId}", controllers.WishlistDelete(d.Wishlists, logg))
			})
		})
	})

	return r
}
