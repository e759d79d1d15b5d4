package api

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed swagger/*.json
var swaggerFS embed.FS

const swaggerDocURL = "/swagger/flightbooking.swagger.json"

type Handlers struct {
	Users     *UserHandler
	Airlines  *AirlineHandler
	Airports  *AirportHandler
	Airplanes *AirplaneHandler
	Flights   *FlightHandler
	Bookings  *BookingHandler
}

type RouterConfig struct {
	Tokens     TokenParser
	Users      UserLookup
	Limiter    Limiter
	Log        *logger.Logger
	SwaggerDir string
}

// NewRouter lays out the public, authenticated and enterprise route groups
// under /api and serves the OpenAPI document with a UI at /docs.
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	authed := public.Group("", Authenticate(cfg.Tokens, cfg.Users, cfg.Log))
	enterprise := authed.Group("/enterprise", RequireEnterprise())

	h.Users.Register(public, authed)
	h.Airlines.Register(public, enterprise)
	h.Airports.Register(public, enterprise)
	h.Airplanes.Register(public, enterprise)
	h.Flights.Register(public, enterprise)
	h.Bookings.Register(authed, RateLimit(cfg.Limiter, cfg.Log))

	if cfg.SwaggerDir != "" {
		router.Static("/swagger", cfg.SwaggerDir)
	} else {
		sub, _ := fs.Sub(swaggerFS, "swagger")
		router.StaticFS("/swagger", http.FS(sub))
	}
	router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDocURL))))

	return router
}
