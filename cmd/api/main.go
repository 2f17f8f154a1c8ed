package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-seat-booking/internal/api"
	"github.com/sanosuguru/go-movie-seat-booking/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-movie-seat-booking/internal/api/middleware"
	"github.com/sanosuguru/go-movie-seat-booking/internal/application"
	"github.com/sanosuguru/go-movie-seat-booking/internal/config"
	"github.com/sanosuguru/go-movie-seat-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-movie-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-movie-seat-booking/internal/queue"
	"github.com/sanosuguru/go-movie-seat-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	if env := os.Getenv("APP_ENV"); env == "production" {
		logger.Set(logger.NewLogger("production"))
	}
	defer logger.Sync()

	m := metrics.Init()

	// PostgreSQL
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続に失敗", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis（空席数キャッシュ）。接続できなくてもキャッシュなしで稼働する
	var cache redisinfra.AvailabilityCacheInterface
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		logger.Warn("Redis接続に失敗したためキャッシュなしで起動", zap.Error(err))
		redisClient.Close()
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
		defer redisClient.Close()
	}
	pingCancel()

	// RabbitMQ（予約イベント発行）。接続できなくてもイベントなしで稼働する
	var publisher application.EventPublisher
	if pub, err := queue.NewPublisher(cfg.RabbitMQ.URL); err != nil {
		logger.Warn("RabbitMQ接続に失敗したためイベント発行なしで起動", zap.Error(err))
	} else {
		publisher = pub
		defer pub.Close()
	}

	// リポジトリとサービス
	movieRepo := postgres.NewMovieRepository(db)
	showRepo := postgres.NewShowRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	txManager := postgres.NewTxManager(db)

	movieService := application.NewMovieService(movieRepo)
	showService := application.NewShowService(showRepo, movieRepo, bookingRepo, cache, cfg.Booking.CacheTTL)
	bookingService := application.NewBookingService(
		txManager, bookingRepo, showRepo, cache, publisher,
		cfg.Booking.MaxAttempts, cfg.Booking.BaseBackoff,
	)

	// 空席数キャッシュを温めるワーカー
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	refresher := worker.NewAvailabilityRefresher(showService, 30*time.Second, 100)
	go refresher.Start(workerCtx)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// ルーティング
	healthHandler := handler.NewHealthHandler()
	movieHandler := handler.NewMovieHandler(movieService, showService)
	showHandler := handler.NewShowHandler(showService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	v1.POST("/movies", movieHandler.Create)
	v1.GET("/movies", movieHandler.List)
	v1.GET("/movies/:id", movieHandler.GetByID)
	v1.GET("/movies/:id/shows", movieHandler.ListShows)

	v1.POST("/shows", showHandler.Create)
	v1.GET("/shows/:id", showHandler.GetByID)
	v1.GET("/shows/:id/availability", showHandler.GetAvailability)
	v1.POST("/shows/:id/book", bookingHandler.Book)

	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	v1.GET("/my-bookings", bookingHandler.GetMyBookings)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています")

	workerCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
