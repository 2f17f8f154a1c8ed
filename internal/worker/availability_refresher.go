package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
	"github.com/sanosuguru/go-movie-seat-booking/internal/pkg/logger"
)

// AvailabilitySource は空席数の再計算を提供するインターフェース
type AvailabilitySource interface {
	ListUpcoming(ctx context.Context, limit int) ([]*show.Show, error)
	RefreshAvailability(ctx context.Context, sh *show.Show) (int, error)
}

// AvailabilityRefresher は未開始の上映回の空席数キャッシュを定期的に温めるワーカー
// キャッシュはTTL切れや無効化後もここで補充されるため、参照系の
// レイテンシがDBの予約数カウントに張り付かない
type AvailabilityRefresher struct {
	showService AvailabilitySource
	interval    time.Duration
	batchSize   int
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewAvailabilityRefresher は新しいリフレッシャーを作成
func NewAvailabilityRefresher(ss AvailabilitySource, interval time.Duration, batchSize int) *AvailabilityRefresher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &AvailabilityRefresher{
		showService: ss,
		interval:    interval,
		batchSize:   batchSize,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start はリフレッシャーを開始
func (r *AvailabilityRefresher) Start(ctx context.Context) {
	logger.Info("空席数リフレッシャー開始",
		zap.Duration("interval", r.interval),
		zap.Int("batch_size", r.batchSize),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空席数リフレッシャー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空席数リフレッシャー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はリフレッシャーを停止
func (r *AvailabilityRefresher) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// refresh は未開始の上映回の空席数を再計算する
func (r *AvailabilityRefresher) refresh(ctx context.Context) {
	log := logger.Get()
	log.Debug("空席数キャッシュの更新開始")

	shows, err := r.showService.ListUpcoming(ctx, r.batchSize)
	if err != nil {
		log.Error("上映回一覧の取得失敗", zap.Error(err))
		return
	}

	refreshed := 0
	for _, sh := range shows {
		if _, err := r.showService.RefreshAvailability(ctx, sh); err != nil {
			log.Warn("空席数の再計算失敗", zap.String("show_id", sh.ID), zap.Error(err))
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Debug("空席数キャッシュを更新", zap.Int("count", refreshed))
	}
}
