package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tunelink/backend/internal/auth"
	"tunelink/backend/internal/middleware"
)

// RouterConfig collects everything the router needs.
type RouterConfig struct {
	Users         *UserHandler
	Relations     *RelationHandler
	Follows       *FollowHandler
	Notifications *NotificationHandler
	JWTSecret     string
	Logger        *zap.Logger
}

// NewRouter builds the full route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", cfg.Users.Register)
			authRoutes.POST("/login", cfg.Users.Login)
		}

		// Everything else requires a valid token.
		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware(cfg.JWTSecret))
		{
			// User routes
			userRoutes := protected.Group("/users")
			{
				userRoutes.GET("/me", cfg.Users.GetMe)
				userRoutes.GET("/:id", cfg.Users.GetUserByID)
				userRoutes.GET("/:id/status", cfg.Relations.GetStatus)

				// Friendship transitions keyed by user
				userRoutes.POST("/:id/request", cfg.Relations.SendRequest)
				userRoutes.POST("/:id/unfriend", cfg.Relations.Unfriend)
			}

			// Friendship transitions keyed by request
			requestRoutes := protected.Group("/requests")
			{
				requestRoutes.GET("", cfg.Relations.ListAllRequests)
				requestRoutes.GET("/pending", cfg.Relations.ListPendingRequests)
				requestRoutes.POST("/:id/respond", cfg.Relations.RespondRequest)
				requestRoutes.POST("/:id/cancel", cfg.Relations.CancelRequest)
			}

			protected.GET("/friends", cfg.Relations.ListFriends)

			// Creator follow routes
			creatorRoutes := protected.Group("/creators")
			{
				creatorRoutes.POST("/:id/follow", cfg.Follows.Follow)
				creatorRoutes.POST("/:id/unfollow", cfg.Follows.Unfollow)
				creatorRoutes.GET("/:id/following", cfg.Follows.IsFollowing)
				creatorRoutes.GET("/:id/followers/count", cfg.Follows.CountFollowers)
			}

			// Notification feed
			notificationRoutes := protected.Group("/notifications")
			{
				notificationRoutes.GET("", cfg.Notifications.List)
				notificationRoutes.POST("/:id/read", cfg.Notifications.MarkRead)
			}
		}
	}

	return router
}
