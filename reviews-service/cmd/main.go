package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobodokan/pkg/logger"
	"mobodokan/pkg/mongodb"
	"mobodokan/reviews-service/internal/app/reviews/config"
	"mobodokan/reviews-service/internal/app/reviews/handler"
	"mobodokan/reviews-service/internal/app/reviews/infrastructure/cache"
	"mobodokan/reviews-service/internal/app/reviews/infrastructure/messaging"
	"mobodokan/reviews-service/internal/app/reviews/processor"
	"mobodokan/reviews-service/internal/app/reviews/repository"
	"mobodokan/reviews-service/internal/app/reviews/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("reviews-service", logLevel)

	// The MongoDB connection is lazy: the first caller that needs the
	// store establishes it. Nothing is dialed here.
	mongoClient := mongodb.New(cfg.MongoDB.URI, cfg.MongoDB.Database)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()

	redisCache, err := cache.NewRedisCache(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	reviewRepo := repository.NewReviewRepository(mongoClient)
	reviewService := service.NewReviewService(reviewRepo, redisCache, kafkaProducer)

	warmerCtx, cancelWarmer := context.WithCancel(context.Background())
	defer cancelWarmer()

	warmer := processor.NewCacheWarmer(reviewService)
	if err := warmer.Start(warmerCtx, cfg.Warmer.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start testimonials cache warmer")
	}
	defer warmer.Stop()

	reviewHandler := handler.NewReviewHandler(reviewService)
	router := handler.SetupRoutes(reviewHandler, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting Reviews Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Reviews Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Reviews Service stopped gracefully")
}
