package show

import (
	"context"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/transaction"
)

// Repository は上映回リポジトリのインターフェース
type Repository interface {
	// Create は新しい上映回を作成する
	Create(ctx context.Context, show *Show) error

	// GetByID はIDから上映回を取得する
	GetByID(ctx context.Context, id string) (*Show, error)

	// GetByIDForUpdate は上映回の行ロックを取得する（トランザクション必須）
	// 同一上映回への予約試行はこのロックで直列化される
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Show, error)

	// ListByMovieID は映画IDから上映回一覧を上映開始時刻順に取得する
	ListByMovieID(ctx context.Context, movieID string) ([]*Show, error)

	// ListUpcoming は未開始の上映回を上映開始時刻順に取得する
	ListUpcoming(ctx context.Context, limit int) ([]*Show, error)
}
