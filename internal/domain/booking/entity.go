package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status は予約の状態を表す
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking は1上映回の1座席に対する予約を表す
// confirmed 状態の (ShowID, SeatNumber) は同時に1件しか存在できない
type Booking struct {
	ID         string
	ShowID     string
	UserID     string
	SeatNumber int
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBooking は確定状態の新しい予約を作成する
// 予約は空席確認に成功した場合のみ作成される
func NewBooking(showID, userID string, seatNumber int) *Booking {
	now := time.Now()
	return &Booking{
		ID:         uuid.NewString(),
		ShowID:     showID,
		UserID:     userID,
		SeatNumber: seatNumber,
		Status:     StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsCancelled は予約がキャンセル済みかを返す
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsOwnedBy は予約の所有者かを返す
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// Cancel は予約をキャンセルする
// cancelled は終端状態であり再有効化はできない
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now()
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.ShowID == "" {
		return ErrShowIDRequired
	}
	if b.UserID == "" {
		return ErrUserIDRequired
	}
	if b.SeatNumber < 1 {
		return ErrInvalidSeatNumber
	}
	return nil
}
