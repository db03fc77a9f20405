package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mobodokan/pkg/logger"
	"mobodokan/pkg/metrics"
)

func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/categories", catalogHandler.ListCategories)
		products.GET("/:id", catalogHandler.GetProduct)

		// Seller console routes require a verified identity.
		products.POST("", authMiddleware.Authenticate(), catalogHandler.CreateProduct)
		products.PUT("/:id", authMiddleware.Authenticate(), catalogHandler.UpdateProduct)
		products.DELETE("/:id", authMiddleware.Authenticate(), catalogHandler.DeleteProduct)
	}

	router.POST("/uploads", authMiddleware.Authenticate(), catalogHandler.UploadImage)

	return router
}
