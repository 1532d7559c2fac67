package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookworm-backend/internal/shared/middleware"
	"bookworm-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupLibraryRoutes(v1, c)
		setupReviewRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/profile", c.UserHandler.GetProfile)
		users.PUT("/profile", c.UserHandler.UpdateProfile)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		// Open Library proxy
		books.GET("/search", c.CatalogHandler.Search)
		books.GET("/details/*key", c.CatalogHandler.GetDetails)

		// Local catalog
		books.GET("", c.CatalogHandler.ListBooks)
		books.GET("/:id", c.CatalogHandler.GetBook)
		books.POST("", middleware.AuthMiddleware(c.JWTManager), c.CatalogHandler.AddBook)
	}
}

// ========================================
// LIBRARY ROUTES
// ========================================
func setupLibraryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	library := v1.Group("/library")
	library.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		library.POST("", c.LibraryHandler.AddToLibrary)
		library.GET("", c.LibraryHandler.ListLibrary)
		library.GET("/stats", c.LibraryHandler.GetStats)
		library.PUT("/:id", c.LibraryHandler.UpdateEntry)
		library.PUT("/:id/progress", c.LibraryHandler.UpdateProgress)
		library.DELETE("/:id", c.LibraryHandler.RemoveFromLibrary)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("/book/:bookId", c.ReviewHandler.ListBookReviews)
		reviews.GET("/user/:userId", c.ReviewHandler.ListUserReviews)
		reviews.GET("/user/:userId/book/:bookId", c.ReviewHandler.GetUserBookReview)

		reviews.POST("", middleware.AuthMiddleware(c.JWTManager), c.ReviewHandler.UpsertReview)
		reviews.DELETE("/:id", middleware.AuthMiddleware(c.JWTManager), c.ReviewHandler.DeleteReview)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = "down"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = "down"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":      dbStatus,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"checks": gin.H{
				"database": dbStatus,
				"cache":    cacheStatus,
			},
		})
	}
}
