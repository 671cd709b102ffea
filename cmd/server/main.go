package main

import (
	"log"

	"go.uber.org/zap"

	"tunelink/backend/internal/config"
	"tunelink/backend/internal/database"
	"tunelink/backend/internal/handler"
	"tunelink/backend/internal/repository"
	"tunelink/backend/internal/service"

	// Swagger imports
	_ "tunelink/backend/docs" // This is important for swag to find the generated docs
)

func init() {
	config.LoadConfig()
}

// @title           Tunelink Social Graph API
// @version         1.0
// @description     Friend relationships, creator follows and notifications for the Tunelink service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	logger.Info("database connection established")

	repo := repository.NewGormRepository(db)

	fanout := &service.NotificationFanout{
		Notifications: repo,
		Directory:     repo,
		Logger:        logger,
	}
	friendships := &service.FriendshipService{
		Requests:  repo,
		Directory: repo,
		Events:    fanout,
	}
	follows := &service.FollowService{
		Follows:   repo,
		Directory: repo,
		Events:    fanout,
	}
	query := &service.QueryService{Requests: repo}
	notifications := &service.NotificationService{Notifications: repo}

	router := handler.NewRouter(handler.RouterConfig{
		Users: &handler.UserHandler{
			Users:     repo,
			Requests:  repo,
			Follows:   repo,
			Query:     query,
			JWTSecret: config.AppConfig.JWTSecret,
			Logger:    logger,
		},
		Relations: &handler.RelationHandler{
			Friends: friendships,
			Query:   query,
			Logger:  logger,
		},
		Follows: &handler.FollowHandler{
			Follows: follows,
			Logger:  logger,
		},
		Notifications: &handler.NotificationHandler{
			Notifications: notifications,
			Logger:        logger,
		},
		JWTSecret: config.AppConfig.JWTSecret,
		Logger:    logger,
	})

	addr := config.AppConfig.ServerAddr
	logger.Info("server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
