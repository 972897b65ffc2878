package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajaypar09/Projects/internal/api/handlers"
	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/services"
)

// Services bundles what the router hands to its handlers
type Services struct {
	Store     *database.Store
	Cards     *services.CardService
	Refresh   *services.RefreshService
	Estimator *services.Estimator
}

var defaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

func SetupRouter(svc Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(), Metrics())

	// CORS configuration - allow configured origins or local dev defaults
	config := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowOrigins = defaultAllowedOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(svc.Cards, svc.Store)
	priceHandler := handlers.NewPriceHandler(svc.Refresh, svc.Estimator)

	api := router.Group("/api")
	{
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/lookup", cardHandler.LookupCard)
			cards.POST("/import", cardHandler.ImportCards)
			cards.GET("/:id", cardHandler.GetCard)
			cards.POST("/:id/refresh-price", priceHandler.RefreshCardPrice)
		}

		api.GET("/estimate", priceHandler.EstimatePrices)

		prices := api.Group("/prices")
		{
			prices.GET("/status", priceHandler.GetPriceStatus)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
