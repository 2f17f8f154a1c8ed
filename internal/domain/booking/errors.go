package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrBookingAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrNotBookingOwner         = errors.New("この予約の所有者ではありません")
	ErrShowIDRequired          = errors.New("上映回IDは必須です")
	ErrUserIDRequired          = errors.New("ユーザーIDは必須です")
	ErrInvalidSeatNumber       = errors.New("座席番号が範囲外です")

	// ErrSeatTaken / ErrShowFull は予約競合の確定的な結果（リトライしない）
	ErrSeatTaken = errors.New("座席は既に予約されています")
	ErrShowFull  = errors.New("満席のため予約できません")

	// ErrBookingConflict は行ロックをすり抜けて一意制約に衝突した場合の
	// 競合シグナル（リトライ対象はこのエラーのみ）
	ErrBookingConflict = errors.New("予約作成が競合しました")

	// ErrSeatAllocationFailed はリトライ回数を使い切った場合の一時的な失敗
	ErrSeatAllocationFailed = errors.New("座席を確保できませんでした。時間をおいて再試行してください")
)
