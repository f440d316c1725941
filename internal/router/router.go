package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hairfit-server/internal/config"
	"github.com/iliyamo/hairfit-server/internal/handler"
	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/middleware"
)

// Handlers bundles every HTTP handler of the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Members   *handler.MemberHandler
	History   *handler.HistoryHandler
	Styles    *handler.StyleHandler
	Files     *handler.FileHandler
	Synthesis *handler.SynthesisHandler
}

// Deps carries what the route middlewares need.  Redis is optional; with a
// nil client rate limits and the style cache are pass-through.
type Deps struct {
	Identity   middleware.IdentityResolver
	RateLimit  config.RateLimitConfig
	Redis      *redis.Client
	StyleCache *middleware.ResponseCache
	Logger     logging.Logger
}

// limit builds a per-route token bucket of n requests per period.
func (d Deps) limit(name string, n int, period time.Duration) echo.MiddlewareFunc {
	return middleware.RateLimit(d.RateLimit.Policy(name, n, period), d.Redis, d.Logger)
}

// Register wires every route on e.
func Register(e *echo.Echo, h Handlers, d Deps) {
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, d)
	RegisterImages(e, h.Files)

	// Protected routes take the auth middleware per route: an echo.Group
	// with an empty prefix would also claim every unmatched path.
	auth := middleware.JWTAuth(d.Identity, d.Logger)
	e.GET("/users/me", h.Auth.Me, auth)
	RegisterSalon(e, auth, h.Members, h.History)
	RegisterCatalog(e, auth, h.Styles, h.Files, h.Synthesis, d)
}

// RegisterRoutes registers the unauthenticated welcome and health probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Welcome)
	e.GET("/health", handler.Health)
	e.GET("/healthz", handler.Healthz)
}

// RegisterAuth registers sign-up, sign-in, refresh and logout.  Each
// credential endpoint has its own rate limit.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
	e.POST("/register", a.Register, d.limit("register", 5, time.Hour))
	e.POST("/login", a.Login, d.limit("login", 10, time.Minute))
	e.POST("/login/google", a.LoginGoogle, d.limit("login", 10, time.Minute))
	e.POST("/refresh", a.Refresh, d.limit("refresh", 20, time.Minute))
	e.POST("/logout", a.Logout)
}

// RegisterImages serves stored photos and style images without auth so
// they can be used directly in <img> tags.
func RegisterImages(e *echo.Echo, f *handler.FileHandler) {
	e.GET("/images/:type/:filename", f.Image)
}
