package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocks-trader/config"
	"stocks-trader/database"
	"stocks-trader/handlers"
	"stocks-trader/middleware"
	"stocks-trader/quote"
	"stocks-trader/session"
	"stocks-trader/web"

	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get database instance", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	store := database.New(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	rdb, err := config.InitRedis(context.Background(), cfg)
	if err != nil {
		logger.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	client := quote.NewClient(cfg.QuoteBaseURL, cfg.APIKey, &http.Client{Timeout: 10 * time.Second})
	quotes := quote.NewCache(client, rdb, cfg.QuoteCacheTTL, logger)
	sessions := session.NewStore(rdb, cfg.SessionSecret, cfg.SessionTTL)

	tmpl, err := web.Templates()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginRateLimit)), cfg.LoginRateLimit)
	h := handlers.New(store, quotes, sessions, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      handlers.NewRouter(h, tmpl, limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
