package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurylabs/aury-backend/api/controllers"
	"github.com/aurylabs/aury-backend/api/middleware"
	"github.com/aurylabs/aury-backend/internal/auth"
	"github.com/aurylabs/aury-backend/internal/cart"
	"github.com/aurylabs/aury-backend/internal/catalog"
	"github.com/aurylabs/aury-backend/internal/chat"
	checkoutsvc "github.com/aurylabs/aury-backend/internal/checkout"
	"github.com/aurylabs/aury-backend/internal/orders"
	"github.com/aurylabs/aury-backend/internal/stores"
	"github.com/aurylabs/aury-backend/pkg/auth/session"
	"github.com/aurylabs/aury-backend/pkg/config"
	"github.com/aurylabs/aury-backend/pkg/db"
	"github.com/aurylabs/aury-backend/pkg/logger"
	"github.com/aurylabs/aury-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router needs. Grouping them keeps the
// constructor signature stable as endpoints are added.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	SessionManager  sessionManager
	AuthService     auth.Service
	RegisterService auth.RegisterService
	StoreService    stores.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrderService    orders.Service
	ChatService     chat.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
	})

	// Customer surface. No JWT: the storefront is keyed by slug plus the
	// browser's X-Session-Id header.
	r.Route("/api/v1/storefront/{slug}", func(r chi.Router) {
		r.Get("/", controllers.Storefront(deps.StoreService, deps.CatalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.StoreService, deps.CartService, logg))
			r.Post("/items", controllers.CartAdd(deps.StoreService, deps.CartService, logg))
			r.Patch("/items/{productId}", controllers.CartAdjust(deps.StoreService, deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.StoreService, deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.StoreService, deps.CartService, logg))
		})

		r.With(middleware.Idempotency(deps.Redis, logg)).Post("/checkout", controllers.Checkout(deps.CheckoutService, logg))

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", controllers.StorefrontChatMessages(deps.StoreService, deps.ChatService, logg))
			r.Post("/", controllers.StorefrontChatPost(deps.StoreService, deps.ChatService, logg))
		})
	})

	// Dashboard surface, owner JWT required.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Get("/api/v1/auth/session", controllers.AuthSession(deps.AuthService, logg))
		r.Post("/api/v1/auth/setup-store", controllers.AuthSetupStore(deps.RegisterService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))

			r.Route("/api/v1/store", func(r chi.Router) {
				r.Get("/", controllers.StoreProfile(deps.StoreService, logg))
				r.Put("/", controllers.StoreUpdate(deps.StoreService, logg))
			})

			r.Route("/api/v1/menu", func(r chi.Router) {
				r.Get("/", controllers.MenuList(deps.CatalogService, logg))
				r.Post("/categories", controllers.CategoryCreate(deps.CatalogService, logg))
				r.Put("/categories/{categoryId}", controllers.CategoryRename(deps.CatalogService, logg))
				r.Delete("/categories/{categoryId}", controllers.CategoryDelete(deps.CatalogService, logg))
				r.Post("/categories/{categoryId}/products/{productId}/toggle", controllers.ProductToggle(deps.CatalogService, logg))
				r.Post("/products", controllers.ProductCreate(deps.CatalogService, logg))
				r.Put("/products/{productId}", controllers.ProductUpdate(deps.CatalogService, logg))
				r.Delete("/products/{productId}", controllers.ProductDelete(deps.CatalogService, logg))
			})

			r.Route("/api/v1/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.OrderService, logg))
				r.Get("/board", controllers.OrdersBoard(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
				r.Post("/{orderId}/accept", controllers.OrderAccept(deps.OrderService, logg))
				r.Post("/{orderId}/ready", controllers.OrderReady(deps.OrderService, logg))
				r.Post("/{orderId}/complete", controllers.OrderComplete(deps.OrderService, logg))
				r.Put("/{orderId}/status", controllers.OrderOverride(deps.OrderService, logg))
			})

			r.Get("/api/v1/dashboard/stats", controllers.DashboardStats(deps.OrderService, logg))

			r.Route("/api/v1/chat", func(r chi.Router) {
				r.Get("/", controllers.ChatConversations(deps.ChatService, logg))
				r.Get("/{sessionId}", controllers.ChatThread(deps.ChatService, logg))
				r.Post("/{sessionId}", controllers.ChatReply(deps.ChatService, logg))
			})
		})
	})

	return r
}
