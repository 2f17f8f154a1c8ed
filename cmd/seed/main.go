package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-seat-booking/internal/application"
	"github.com/sanosuguru/go-movie-seat-booking/internal/config"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
	"github.com/sanosuguru/go-movie-seat-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/logger"
)

type seedMovie struct {
	title    string
	duration int
	shows    []seedShow
}

type seedShow struct {
	screenName string
	startIn    time.Duration
	totalSeats int
}

var seedData = []seedMovie{
	{
		title: "七人の侍", duration: 207,
		shows: []seedShow{
			{screenName: "スクリーン1", startIn: 24 * time.Hour, totalSeats: 120},
			{screenName: "スクリーン1", startIn: 28 * time.Hour, totalSeats: 120},
		},
	},
	{
		title: "生きる", duration: 143,
		shows: []seedShow{
			{screenName: "スクリーン2", startIn: 25 * time.Hour, totalSeats: 80},
		},
	},
	{
		title: "羅生門", duration: 88,
		shows: []seedShow{
			{screenName: "スクリーン3", startIn: 26 * time.Hour, totalSeats: 40},
			{screenName: "スクリーン3", startIn: 30 * time.Hour, totalSeats: 40},
		},
	},
}

// 開発用のサンプルデータ投入コマンド。タイトルで重複を確認するため何度実行してもよい
func main() {
	cfg := config.Load()
	defer logger.Sync()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("DB接続に失敗", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	movieRepo := postgres.NewMovieRepository(db)
	showRepo := postgres.NewShowRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	movieService := application.NewMovieService(movieRepo)
	showService := application.NewShowService(showRepo, movieRepo, bookingRepo, nil, cfg.Booking.CacheTTL)

	ctx := context.Background()
	for _, sm := range seedData {
		existing, err := movieRepo.GetByTitle(ctx, sm.title)
		if err == nil {
			logger.Info("登録済みのためスキップ", zap.String("title", existing.Title))
			continue
		}
		if !errors.Is(err, movie.ErrMovieNotFound) {
			logger.Fatal("映画の確認に失敗", zap.String("title", sm.title), zap.Error(err))
		}

		m, err := movieService.CreateMovie(ctx, sm.title, sm.duration)
		if err != nil {
			logger.Fatal("映画の登録に失敗", zap.String("title", sm.title), zap.Error(err))
		}
		logger.Info("映画を登録", zap.String("title", m.Title), zap.String("id", m.ID))

		for _, ss := range sm.shows {
			sh, err := showService.CreateShow(ctx, m.ID, ss.screenName, time.Now().Add(ss.startIn), ss.totalSeats)
			if err != nil {
				logger.Fatal("上映回の登録に失敗", zap.String("title", m.Title), zap.Error(err))
			}
			logger.Info("上映回を登録",
				zap.String("title", m.Title),
				zap.String("screen", sh.ScreenName),
				zap.Time("start_at", sh.StartAt),
				zap.Int("total_seats", sh.TotalSeats),
			)
		}
	}

	logger.Info("シード投入完了")
}
