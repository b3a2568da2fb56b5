package server

import (
	"slices"
	"time"

	httpHandler "github.com/cjodon01/autoauthadmin/interfaces/http"
	"github.com/cjodon01/autoauthadmin/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	SecretKey      string
	AllowedOrigins []string
}

func InitiateRouter(
	cfg RouterConfig,
	socialHandler httpHandler.ISocialHandler,
	healthHandler httpHandler.IHealthHandler,
	metricsHandler gin.HandlerFunc,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(cfg.AllowedOrigins, origin)
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)
	if metricsHandler != nil {
		router.GET("/metrics", metricsHandler)
	}

	api := router.Group("api")
	api.Use(middleware.Auth(cfg.SecretKey))

	social := api.Group("/social")
	{
		social.POST("/dispatch", socialHandler.Dispatch)
		social.POST("/single-post", socialHandler.SinglePost)
		social.GET("/features", socialHandler.Features)
		social.GET("/call-records", socialHandler.CallRecords)
	}

	return router
}
