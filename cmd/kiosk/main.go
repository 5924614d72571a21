package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swizzle-client/config"
	"swizzle-client/internal/api"
	"swizzle-client/internal/apiclient"
	"swizzle-client/internal/cart"
	"swizzle-client/internal/feed"
	"swizzle-client/internal/promo"
	"swizzle-client/internal/redisclient"
	"swizzle-client/internal/session"
	"swizzle-client/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Kiosk.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting swizzle kiosk client")

	tp, err := util.InitTracer("swizzle-client", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// The kiosk degrades without Redis: no menu cache, no pub/sub
		// feed. Kafka still carries the board.
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	sess := session.NewStore(cfg.Session.FilePath)
	client := apiclient.New(cfg.API.BaseURL, cfg.API.RequestTimeout, sess)

	cartStore := cart.NewStore()
	promoManager := promo.NewManager(client, cartStore)

	board := feed.NewBoard()
	notifications := feed.NewNotificationCenter()
	dispatcher := feed.NewDispatcher(board, notifications)

	// Seed the board from the REST list before the push channel takes
	// over. Needs a staff session; without one the board starts empty.
	if sess.Valid() {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 15*time.Second)
		if orders, err := client.ListOrders(seedCtx, "", ""); err != nil {
			log.Printf("Failed to seed order board: %v", err)
		} else {
			board.Seed(orders)
		}
		seedCancel()
	}

	feedCtx, feedCancel := context.WithCancel(context.Background())
	defer feedCancel()

	kafkaSource := feed.NewKafkaSource(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup, dispatcher)
	go func() {
		if err := kafkaSource.Run(feedCtx); err != nil && feedCtx.Err() == nil {
			log.Printf("Kafka feed source error: %v", err)
		}
	}()

	if redisClient != nil {
		redisSource := feed.NewRedisSource(redisClient, feed.OrderEventsChannel, dispatcher)
		go func() {
			if err := redisSource.Run(feedCtx); err != nil && feedCtx.Err() == nil {
				log.Printf("Redis feed source error: %v", err)
			}
		}()
	}

	if cfg.Kiosk.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(client, redisClient, cartStore, promoManager, board, notifications, cfg.Redis.MenuTTL)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Kiosk.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Kiosk.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	feedCancel()
	kafkaSource.Close()

	log.Println("Server exited")
}
