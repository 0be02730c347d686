package router

import (
	"github.com/gin-gonic/gin"
	"github.com/geopin/geopin-backend/config"
	"github.com/geopin/geopin-backend/internal/app/controller"
	"github.com/geopin/geopin-backend/internal/middleware"
)

type Router struct {
	poiController *controller.POIController
	tagController *controller.TagController
	config        *config.Config
}

func NewRouter(
	poiController *controller.POIController,
	tagController *controller.TagController,
	cfg *config.Config,
) *Router {
	return &Router{
		poiController: poiController,
		tagController: tagController,
		config:        cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "GeoPin API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		pois := v1.Group("/pois")
		{
			pois.GET("", r.poiController.ListPOIs)
			pois.POST("", r.poiController.CreatePOI)
			pois.GET("/search/radius", r.poiController.SearchRadius)
			pois.GET("/search/bounds", r.poiController.SearchBounds)
			pois.GET("/search/text", r.poiController.SearchText)
			pois.GET("/:id", r.poiController.GetPOIByID)
			pois.PUT("/:id", r.poiController.UpdatePOI)
			pois.DELETE("/:id", r.poiController.DeletePOI)
			pois.POST("/:id/tags/:tagId", r.poiController.AddTag)
			pois.DELETE("/:id/tags/:tagId", r.poiController.RemoveTag)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.POST("", r.tagController.CreateTag)
			tags.GET("/search/:name/pois", r.tagController.GetPOIsByTagName)
			tags.GET("/:id", r.tagController.GetTagByID)
			tags.PUT("/:id", r.tagController.UpdateTag)
			tags.DELETE("/:id", r.tagController.DeleteTag)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
