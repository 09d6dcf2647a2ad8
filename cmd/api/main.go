package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigline/gigline/internal/config"
	"github.com/gigline/gigline/internal/handlers"
	"github.com/gigline/gigline/internal/middleware"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/internal/services"
	"github.com/gigline/gigline/pkg/cache"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting Gigline API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	eventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.DomainEvents)
	defer eventsProducer.Close()

	profileRepo := repository.NewProfileRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	gigRepo := repository.NewGigRepository(db.DB)
	interestRepo := repository.NewInterestRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	chatRepo := repository.NewChatRepository(db.DB)

	notificationService := services.NewNotificationService(notificationRepo, eventsProducer, logger)
	directoryService := services.NewDirectoryService(profileRepo, redisClient, eventsProducer, cfg.Cache.ProfileTTL, logger)
	socialService := services.NewSocialService(profileRepo, followRepo, directoryService, notificationService, eventsProducer, logger)
	gigService := services.NewGigService(db.DB, gigRepo, interestRepo, profileRepo, notificationService, eventsProducer, logger)
	interestService := services.NewInterestService(interestRepo, gigRepo, profileRepo, notificationService, eventsProducer, logger)
	bookingService := services.NewBookingService(db.DB, gigRepo, profileRepo, notificationService, eventsProducer, logger)
	feedService := services.NewFeedService(postRepo, profileRepo, notificationService, eventsProducer, logger)
	likeService := services.NewLikeService(likeRepo, postRepo, eventsProducer, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, profileRepo, notificationService, eventsProducer, logger)
	chatService := services.NewChatService(chatRepo, profileRepo, notificationService, eventsProducer, logger)

	userHandler := handlers.NewUserHandler(directoryService, socialService, notificationService)
	gigHandler := handlers.NewGigHandler(gigService, interestService, bookingService)
	feedHandler := handlers.NewFeedHandler(feedService, likeService, commentService)
	chatHandler := handlers.NewChatHandler(chatService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api/v1")
	{
		// Public reads
		api.GET("/users", userHandler.ListByRole)
		api.GET("/users/:id", userHandler.GetProfile)
		api.GET("/users/:id/followers", userHandler.GetFollowers)
		api.GET("/users/:id/following", userHandler.GetFollowing)
		api.GET("/users/:id/posts", feedHandler.GetUserPosts)
		api.GET("/gigs", gigHandler.ListOpenGigs)
		api.GET("/gigs/:id", gigHandler.GetGig)
		api.GET("/feed", feedHandler.GetFeed)
		api.GET("/posts/:id", feedHandler.GetPost)
		api.GET("/posts/:id/likes", feedHandler.GetPostLikes)
		api.GET("/posts/:id/comments", feedHandler.GetPostComments)

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{Secret: cfg.JWT.Secret}))
		{
			protected.PUT("/users/profile", userHandler.SyncProfile)
			protected.POST("/users/:id/follow", userHandler.Follow)
			protected.DELETE("/users/:id/follow", userHandler.Unfollow)
			protected.GET("/notifications", userHandler.GetNotifications)
			protected.POST("/notifications/read", userHandler.MarkNotificationsRead)

			protected.POST("/gigs", gigHandler.CreateGig)
			protected.GET("/gigs/mine", gigHandler.ListMyGigs)
			protected.GET("/gigs/bookings", gigHandler.ListMyBookings)
			protected.GET("/gigs/interests", gigHandler.ListMyInterests)
			protected.POST("/gigs/:id/cancel", gigHandler.CancelGig)
			protected.POST("/gigs/:id/complete", gigHandler.CompleteGig)
			protected.POST("/gigs/:id/interest", gigHandler.ExpressInterest)
			protected.GET("/gigs/:id/interested", gigHandler.ListInterested)
			protected.POST("/gigs/:id/book", gigHandler.BookDJ)

			protected.POST("/posts", feedHandler.CreatePost)
			protected.POST("/posts/:id/like", feedHandler.ToggleLike)
			protected.POST("/posts/:id/repost", feedHandler.Repost)
			protected.POST("/posts/:id/comments", feedHandler.CreateComment)

			protected.POST("/chats", chatHandler.OpenChat)
			protected.GET("/chats", chatHandler.ListChats)
			protected.GET("/chats/:id/messages", chatHandler.GetMessages)
			protected.POST("/chats/:id/messages", chatHandler.SendMessage)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
