package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-movie-seat-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-movie-seat-booking/internal/queue"
)

const (
	defaultMaxAttempts = 5
	defaultBaseBackoff = 50 * time.Millisecond
)

// EventPublisher は予約イベントをブローカーへ発行するインターフェース
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService は座席の確保とキャンセルを担うアプリケーションサービス
// 上映回の行ロック下でのチェック＆予約により二重予約を防止する
type BookingService struct {
	txManager   transaction.Manager
	bookingRepo booking.Repository
	showRepo    show.Repository
	cache       redisinfra.AvailabilityCacheInterface
	publisher   EventPublisher
	maxAttempts int
	baseBackoff time.Duration
}

// NewBookingService は新しいBookingServiceを作成する
// cache と publisher は任意の依存であり nil を許容する
// maxAttempts / baseBackoff に0以下を渡すとデフォルト値（5回 / 50ms）を使用する
func NewBookingService(
	txm transaction.Manager,
	bookingRepo booking.Repository,
	showRepo show.Repository,
	cache redisinfra.AvailabilityCacheInterface,
	publisher EventPublisher,
	maxAttempts int,
	baseBackoff time.Duration,
) *BookingService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if baseBackoff <= 0 {
		baseBackoff = defaultBaseBackoff
	}
	return &BookingService{
		txManager:   txm,
		bookingRepo: bookingRepo,
		showRepo:    showRepo,
		cache:       cache,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
	}
}

// ReserveInput は座席予約の入力
type ReserveInput struct {
	ShowID     string
	UserID     string
	SeatNumber int
}

// Reserve は指定座席を確保する
// 同一上映回への同時予約は上映回の行ロックで直列化され、1座席につき
// 1件だけが成功する。一意制約との競合（ErrBookingConflict）のみ
// 指数バックオフ＋ジッター付きでリトライし、使い切ると
// ErrSeatAllocationFailed を返す
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*booking.Booking, error) {
	if input.UserID == "" {
		return nil, booking.ErrUserIDRequired
	}

	// 座席番号の検証は競合が起こりうる処理より前に行う
	sh, err := s.showRepo.GetByID(ctx, input.ShowID)
	if err != nil {
		return nil, err
	}
	if !sh.HasSeat(input.SeatNumber) {
		return nil, fmt.Errorf("%w: 座席番号は1以上%d以下で指定してください", booking.ErrInvalidSeatNumber, sh.TotalSeats)
	}

	var b *booking.Booking
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		b, err = s.tryReserve(ctx, sh, input)
		if err == nil {
			s.recordBooking("confirmed", attempt)
			s.afterBookingChange(ctx, b)
			return b, nil
		}
		if !errors.Is(err, booking.ErrBookingConflict) {
			s.recordBookingError(err, attempt)
			return nil, err
		}

		// ロックを保持しない状態でバックオフする
		// 待機時間: baseBackoff * 2^(attempt-1) + [0, baseBackoff) のジッター
		if attempt < s.maxAttempts {
			wait := s.baseBackoff<<(attempt-1) + time.Duration(rand.Int63n(int64(s.baseBackoff)))
			logger.Warn("予約作成が競合したためリトライ",
				zap.String("show_id", input.ShowID),
				zap.Int("seat_number", input.SeatNumber),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	logger.Error("リトライ回数を使い切ったため予約失敗",
		zap.String("show_id", input.ShowID),
		zap.Int("seat_number", input.SeatNumber),
		zap.Int("attempts", s.maxAttempts),
	)
	s.recordBooking("retry_exhausted", s.maxAttempts)
	return nil, booking.ErrSeatAllocationFailed
}

// tryReserve は1回分のチェック＆予約をトランザクション内で実行する
func (s *BookingService) tryReserve(ctx context.Context, sh *show.Show, input ReserveInput) (*booking.Booking, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	// 上映回の行ロックを取得し、同一上映回への予約試行を直列化する
	locked, err := s.showRepo.GetByIDForUpdate(ctx, tx, sh.ID)
	if err != nil {
		return nil, err
	}

	// ロック下で座席の空きを再確認する
	taken, err := s.bookingRepo.ConfirmedSeatExists(ctx, tx, locked.ID, input.SeatNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, booking.ErrSeatTaken
	}

	count, err := s.bookingRepo.CountConfirmedByShowID(ctx, tx, locked.ID)
	if err != nil {
		return nil, err
	}
	if count >= locked.TotalSeats {
		return nil, booking.ErrShowFull
	}

	b := booking.NewBooking(locked.ID, input.UserID, input.SeatNumber)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, err
	}
	// コミットと同時にロックが解放される
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return b, nil
}

// Cancel は予約をキャンセルする
// 所有者のみがキャンセルでき、cancelled は終端状態となる
// キャンセルは以後の空席数計算にのみ影響し、過去の競合結果は変わらない
func (s *BookingService) Cancel(ctx context.Context, bookingID, requesterID string) (*booking.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.recordCancellation("not_found")
		return nil, err
	}
	if !b.IsOwnedBy(requesterID) {
		s.recordCancellation("not_owner")
		return nil, booking.ErrNotBookingOwner
	}
	if err := b.Cancel(); err != nil {
		s.recordCancellation("already_cancelled")
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()
	if err := s.bookingRepo.UpdateStatus(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.recordCancellation("cancelled")
	s.afterBookingChange(ctx, b)
	return b, nil
}

// ListUserBookings はユーザーの予約一覧を作成日時の降順で取得する
func (s *BookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.bookingRepo.GetByUserID(ctx, userID, limit, offset)
}

// afterBookingChange は予約状態の変化後の副作用（キャッシュ無効化・イベント発行）を行う
// 副作用の失敗は予約結果に影響させず、ログに残すのみとする
func (s *BookingService) afterBookingChange(ctx context.Context, b *booking.Booking) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, b.ShowID); err != nil {
			logger.Warn("空席数キャッシュの無効化に失敗", zap.String("show_id", b.ShowID), zap.Error(err))
		}
	}
	if s.publisher != nil {
		ev := queue.BookingEvent{
			BookingID:  b.ID,
			ShowID:     b.ShowID,
			UserID:     b.UserID,
			SeatNumber: b.SeatNumber,
			Status:     string(b.Status),
			OccurredAt: b.UpdatedAt,
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			logger.Warn("予約イベントの発行に失敗", zap.String("booking_id", b.ID), zap.Error(err))
		}
	}
}

func (s *BookingService) recordBooking(status string, attempts int) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues(status).Inc()
		m.BookingAttempts.Observe(float64(attempts))
	}
}

func (s *BookingService) recordBookingError(err error, attempts int) {
	status := "error"
	switch {
	case errors.Is(err, booking.ErrSeatTaken):
		status = "seat_taken"
	case errors.Is(err, booking.ErrShowFull):
		status = "show_full"
	}
	s.recordBooking(status, attempts)
}

func (s *BookingService) recordCancellation(status string) {
	if m := metrics.Get(); m != nil {
		m.CancellationsTotal.WithLabelValues(status).Inc()
	}
}
