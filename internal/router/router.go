package router // package router builds the echo instances of both apps and registers their routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/forms"
	"github.com/iliyamo/paralympics-iris/internal/handler"
	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/middleware"
	"github.com/iliyamo/paralympics-iris/internal/predict"
	"github.com/iliyamo/paralympics-iris/internal/service"
	"github.com/iliyamo/paralympics-iris/internal/session"
	"github.com/iliyamo/paralympics-iris/internal/utils"
)

// New returns an echo instance with the shared renderer, validator, error
// handler and request logging installed.
func New(logger *slog.Logger, renderer echo.Renderer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = forms.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler()
	e.Use(logging.Middleware(logger))
	e.Use(echomw.Recover())
	return e
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// IrisDeps carries everything the iris routes are built from.
type IrisDeps struct {
	Cfg       config.Config
	DB        handler.Pinger
	Model     *predict.Model
	Users     handler.UserStore
	Iris      handler.IrisLister
	Sessions  *session.Manager
	RateLimit config.RateLimitConfig
	Redis     *redis.Client

	// DisableCSRF turns off the form token check; tests post forms directly.
	DisableCSRF bool
}

func csrf(disabled bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		Skipper:        func(echo.Context) bool { return disabled },
		TokenLookup:    "form:csrf_token",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// RegisterIris mounts the prediction form, the iris list and the session
// login pages.
func RegisterIris(e *echo.Echo, d IrisDeps) {
	RegisterRoutes(e, d.DB)

	protect := csrf(d.DisableCSRF)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	both := []string{http.MethodGet, http.MethodPost}

	ih := handler.NewIrisHandler(d.Model, d.Iris, d.Sessions)
	e.Match(both, "/", ih.Index, protect)
	e.GET("/predict", ih.Predict)
	e.GET("/iris", ih.List)

	ah := handler.NewSessionAuthHandler(d.Cfg, d.Users, d.Sessions)
	e.Match(both, "/register", ah.Register, protect, limit)
	e.Match(both, "/login", ah.Login, protect, limit)
	e.GET("/logout", ah.Logout, middleware.LoginRequired(d.Sessions))
}

// ParalympicsDeps carries everything the paralympics routes are built from.
type ParalympicsDeps struct {
	Cfg       config.Config
	DB        handler.Pinger
	Users     handler.UserStore
	Principal middleware.PrincipalFinder
	Regions   handler.RegionStore
	Events    handler.EventStore
	Publisher service.Publisher
	Issuer    *utils.TokenIssuer
	Now       func() time.Time
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// RegisterParalympics mounts the event pages, the dashboard and the REST
// API.  Reads under /api are cached in Redis when it is available; only
// deleting a region requires a token.
func RegisterParalympics(e *echo.Echo, d ParalympicsDeps) {
	RegisterRoutes(e, d.DB)

	ph := handler.NewPagesHandler(d.Events)
	e.GET("/", ph.Index)
	e.GET("/display_event/:id", ph.DisplayEvent)

	dh := handler.NewDashboardHandler(d.Events)
	e.GET("/dashboard", dh.Page)
	dash := e.Group("/dashboard")
	dash.GET("/", dh.Page)
	dash.GET("/line", dh.Line)
	dash.GET("/visibility", dh.Visibility)

	auth := handler.NewAPIAuthHandler(d.Cfg, d.Users, d.Issuer, d.Now)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	e.POST("/api/register", auth.Register, limit)
	e.POST("/api/login", auth.Login, limit)

	api := handler.NewAPIHandler(d.Regions, d.Events, d.Publisher)
	g := e.Group("/api", middleware.NewRedisCache(d.Cache, d.Redis))
	g.GET("/noc", api.ListRegions)
	g.GET("/noc/:code", api.GetRegion)
	g.POST("/noc", api.CreateRegion)
	g.PATCH("/noc/:code", api.UpdateRegion)
	g.DELETE("/noc/:code", api.DeleteRegion, middleware.TokenRequired(d.Issuer, d.Principal, d.Now))

	g.GET("/event", api.ListEvents)
	g.GET("/event/:event_id", api.GetEvent)
	g.POST("/event", api.CreateEvent)
	g.PATCH("/event/:event_id", api.UpdateEvent)
}
