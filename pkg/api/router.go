package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/irhome/pkg/api/handlers"
	"github.com/urmzd/irhome/pkg/device"
	"github.com/urmzd/irhome/pkg/device/schema"
)

// Router holds the Gin engine and dependencies
type Router struct {
	engine     *gin.Engine
	controller device.Controller
	validator  *schema.Validator
}

// NewRouter creates a new API router
func NewRouter(controller device.Controller, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:     engine,
		controller: controller,
		validator:  validator,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.controller)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.GET("/profiles", handlers.ListProfiles)

		devicesHandler := handlers.NewDevicesHandler(r.controller, r.validator)
		commandsHandler := handlers.NewCommandsHandler(r.controller)
		learnHandler := handlers.NewLearnHandler(r.controller)
		devices := v1.Group("/devices")
		{
			devices.GET("", devicesHandler.ListDevices)
			devices.GET("/:id", devicesHandler.GetDevice)
			devices.PUT("/:id", devicesHandler.PutDevice)
			devices.DELETE("/:id", devicesHandler.DeleteDevice)

			devices.POST("/:id/commands", commandsHandler.ExecuteCommand)
			devices.POST("/:id/controls", learnHandler.LearnControl)
		}
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Server wraps the router in an http.Server listening on addr. Learning
// requests block for up to ten minutes, so there is no write timeout.
func (r *Router) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
