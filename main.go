package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ms-busbooking/internal/api"
	"ms-busbooking/internal/booking"
	holds "ms-busbooking/internal/booking/redis"
	"ms-busbooking/internal/config"
	"ms-busbooking/internal/insight"
	"ms-busbooking/internal/kafka"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/payment"
	"ms-busbooking/internal/repository"
	"ms-busbooking/internal/sse"
	"ms-busbooking/internal/store"
	"ms-busbooking/internal/tickets/qr"

	"github.com/joho/godotenv"
)

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Bus Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}
	cfg := config.Load()
	ctx := context.Background()

	kv, redisClient, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Store initialization failed: %v", err))
	}
	defer closeStore()

	collections, err := store.NewCollections(kv, logger)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Seed data unavailable: %v", err))
	}
	repo := repository.New(ctx, collections, logger)

	svc := &booking.Service{
		Store:    repo,
		Payments: payment.NewService(cfg.Booking.PaymentDelay, logger),
		Passes:   qr.NewQRGenerator(cfg.QR.SecretKey),
		MaxSeats: cfg.Booking.MaxSeats,
		HoldTTL:  cfg.Booking.SeatHoldTTL,
		Logger:   logger,
	}

	if redisClient == nil {
		redisClient, err = store.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("REDIS", fmt.Sprintf("Seat holds disabled: %v", err))
		} else {
			defer redisClient.Close()
		}
	}
	if redisClient != nil {
		svc.Holds = holds.NewSeatHolds(redisClient, cfg.Booking.SeatHoldTTL, logger)
		logger.Info("REDIS", fmt.Sprintf("Seat holds enabled (TTL %s)", cfg.Booking.SeatHoldTTL))
	}

	seatEvents := sse.NewSeatEventEmitter()
	publishers := booking.Publishers{seatEvents}

	if cfg.Kafka.Enabled {
		topics := kafka.Topics{
			BookingConfirmed: cfg.Kafka.Topics.BookingConfirmed,
			BookingCancelled: cfg.Kafka.Topics.BookingCancelled,
		}
		if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, topics.All(), logger); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, topics, logger)
		defer producer.Close()
		publishers = append(publishers, producer)
		logger.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Kafka.Brokers))
	} else {
		logger.Info("KAFKA", "Kafka disabled, booking events will not be streamed")
	}

	var insightClient *insight.Client
	if cfg.Insight.APIKey != "" {
		httpClient := &http.Client{Timeout: cfg.Insight.Timeout}
		insightClient = insight.NewClient(httpClient, cfg.Insight.Endpoint, cfg.Insight.APIKey, logger)
	}

	svc.Events = publishers

	handler := api.NewHandler(repo, svc, insightClient, logger, cfg.Booking.DefaultPerPage)
	handler.Events = seatEvents

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Bus Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Bus Booking Service shutdown complete")
	}
}
