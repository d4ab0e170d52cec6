package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/CodeOrigin25/Mandi-Link/internal/api/handler"
	"github.com/CodeOrigin25/Mandi-Link/internal/api/middleware"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/ports"
	"github.com/CodeOrigin25/Mandi-Link/internal/core/service"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Sessions  ports.SessionManager
	Presence  ports.PresenceRegistry
	Gate      *service.AccessGate
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	JWTTTL    time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mandilink"))

	// --- Dependencies ---
	tokens := handler.NewTokenIssuer(deps.JWTSecret, deps.JWTTTL)
	authHandler := handler.NewAuthHandler(deps.Sessions, tokens)
	presenceHandler := handler.NewPresenceHandler(deps.Presence)
	dashboardHandler := handler.NewDashboardHandler(deps.Sessions)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)
	e.PATCH("/auth/preferences", authHandler.UpdatePreferences, middleware.Gate(deps.Gate))

	// --- Presence (any authenticated caller) ---
	e.GET("/presence/:role", presenceHandler.ListByRole, authMiddleware)

	// --- Role-gated dashboard endpoints ---
	for _, role := range []domain.Role{domain.RoleTrader, domain.RoleProducer, domain.RoleConsumer} {
		e.GET(role.DashboardPath(), dashboardHandler.View(role), middleware.Gate(deps.Gate, role))
	}

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
