package booking

import (
	"context"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
// 予約行は削除されない（履歴・監査のため保持する）
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// confirmed 座席の一意制約違反は ErrBookingConflict を返す
	Create(ctx context.Context, tx transaction.Tx, booking *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByUserID はユーザーIDから予約一覧を作成日時の降順で取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Booking, error)

	// UpdateStatus は予約の状態のみを更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, booking *Booking) error

	// ConfirmedSeatExists は指定座席に confirmed 予約が存在するかを返す
	// tx が nil の場合はトランザクション外で読み取る
	ConfirmedSeatExists(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) (bool, error)

	// CountConfirmedByShowID は上映回の confirmed 予約数を返す
	// tx が nil の場合はトランザクション外で読み取る
	CountConfirmedByShowID(ctx context.Context, tx transaction.Tx, showID string) (int, error)
}
