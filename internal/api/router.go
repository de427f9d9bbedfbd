package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	bbolt "go.etcd.io/bbolt"

	"github.com/whms/health-portal/internal/api/handler"
	"github.com/whms/health-portal/internal/api/middleware"
	"github.com/whms/health-portal/internal/core/domain"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/infrastructure/camera"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Scan     ports.ScanService
	Registry ports.IdentityRegistry
	Camera   *camera.PushCamera
	BoltDB   *bbolt.DB
	Redis    *redis.Client // nil when the replay guard is disabled
	JWT      string
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Registry)
	identityHandler := handler.NewIdentityHandler(deps.Registry)
	scanHandler := handler.NewScanHandler(deps.Scan, deps.Camera)
	authMiddleware := middleware.Auth(deps.JWT)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/qr", authHandler.LoginQR)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/session", authHandler.Session, authMiddleware)

	// --- Identity routes ---
	e.GET("/identities", identityHandler.List, authMiddleware, middleware.RBAC(domain.RoleAdmin))
	e.GET("/identities/:id/qr.png", identityHandler.QRBadge, authMiddleware)

	// --- Scan routes (pre-auth: scanning is how a session gets opened) ---
	e.POST("/scan/start", scanHandler.Start)
	e.POST("/scan/stop", scanHandler.Stop)
	e.POST("/scan/frame", scanHandler.Frame)
	e.GET("/scan/status", scanHandler.Status)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.BoltDB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
