package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"shipalong/internal/handler/api"
	"shipalong/internal/handler/middleware"
	"shipalong/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, capacityHandler *api.CapacityHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, capacityHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, capacityHandler *api.CapacityHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		capacityGroup := apiGroup.Group("/trips/:tripId/capacity")
		{
			addRoutes(capacityGroup, []route{
				{Method: http.MethodPost, Path: "", Handler: capacityHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: capacityHandler.Status},
				{Method: http.MethodPost, Path: "/check", Handler: capacityHandler.Check},
				{Method: http.MethodPost, Path: "/reserve", Handler: capacityHandler.Reserve},
				{Method: http.MethodPost, Path: "/confirm", Handler: capacityHandler.Confirm},
				{Method: http.MethodPost, Path: "/release", Handler: capacityHandler.Release},
				{Method: http.MethodPost, Path: "/release-all", Handler: capacityHandler.ReleaseAll},
				{Method: http.MethodPut, Path: "/status", Handler: capacityHandler.UpdateStatus},
				{Method: http.MethodPost, Path: "/optimize", Handler: capacityHandler.Optimize},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
