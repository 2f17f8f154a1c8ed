package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
	redisinfra "github.com/sanosuguru/go-movie-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/logger"
)

const defaultCacheTTL = 30 * time.Second

// ShowAvailability は上映回と空席数をまとめた読み取りモデル
type ShowAvailability struct {
	Show           *show.Show
	AvailableSeats int
}

// ShowService は上映回の参照と空席数の算出を担うアプリケーションサービス
// 空席数は確定予約数からの実測値であり、Redisキャッシュは読み取り最適化に使う
type ShowService struct {
	showRepo    show.Repository
	movieRepo   movie.Repository
	bookingRepo booking.Repository
	cache       redisinfra.AvailabilityCacheInterface
	cacheTTL    time.Duration
}

// NewShowService は新しいShowServiceを作成する
// cache は任意の依存であり nil を許容する
func NewShowService(
	showRepo show.Repository,
	movieRepo movie.Repository,
	bookingRepo booking.Repository,
	cache redisinfra.AvailabilityCacheInterface,
	cacheTTL time.Duration,
) *ShowService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &ShowService{
		showRepo:    showRepo,
		movieRepo:   movieRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// CreateShow は新しい上映回を作成する
func (s *ShowService) CreateShow(ctx context.Context, movieID, screenName string, startAt time.Time, totalSeats int) (*show.Show, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	sh := show.NewShow(movieID, screenName, startAt, totalSeats)
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.showRepo.Create(ctx, sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// GetShow はIDから上映回を取得する
func (s *ShowService) GetShow(ctx context.Context, id string) (*show.Show, error) {
	return s.showRepo.GetByID(ctx, id)
}

// GetShowAvailability は上映回とその空席数を取得する
func (s *ShowService) GetShowAvailability(ctx context.Context, id string) (*ShowAvailability, error) {
	sh, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	available, err := s.CountAvailableSeats(ctx, sh)
	if err != nil {
		return nil, err
	}
	return &ShowAvailability{Show: sh, AvailableSeats: available}, nil
}

// ListShowsByMovie は映画の上映回一覧を空席数付きで取得する
func (s *ShowService) ListShowsByMovie(ctx context.Context, movieID string) ([]*ShowAvailability, error) {
	if _, err := s.movieRepo.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	shows, err := s.showRepo.ListByMovieID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	result := make([]*ShowAvailability, 0, len(shows))
	for _, sh := range shows {
		available, err := s.CountAvailableSeats(ctx, sh)
		if err != nil {
			return nil, err
		}
		result = append(result, &ShowAvailability{Show: sh, AvailableSeats: available})
	}
	return result, nil
}

// CountAvailableSeats は上映回の空席数を返す
// キャッシュヒット時はその値を、ミス時は確定予約数から算出してキャッシュに書き戻す
func (s *ShowService) CountAvailableSeats(ctx context.Context, sh *show.Show) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, sh.ID)
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("空席数キャッシュの取得に失敗", zap.String("show_id", sh.ID), zap.Error(err))
		}
	}
	return s.RefreshAvailability(ctx, sh)
}

// RefreshAvailability は空席数を予約テーブルから再計算しキャッシュを更新する
func (s *ShowService) RefreshAvailability(ctx context.Context, sh *show.Show) (int, error) {
	confirmed, err := s.bookingRepo.CountConfirmedByShowID(ctx, nil, sh.ID)
	if err != nil {
		return 0, err
	}
	available := sh.TotalSeats - confirmed
	if available < 0 {
		available = 0
	}
	if s.cache != nil {
		if err := s.cache.SetAvailableCount(ctx, sh.ID, available, s.cacheTTL); err != nil {
			logger.Warn("空席数キャッシュの保存に失敗", zap.String("show_id", sh.ID), zap.Error(err))
		}
	}
	return available, nil
}

// ListUpcoming は未開始の上映回一覧を取得する
func (s *ShowService) ListUpcoming(ctx context.Context, limit int) ([]*show.Show, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.showRepo.ListUpcoming(ctx, limit)
}
