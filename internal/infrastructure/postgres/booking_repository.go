package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/transaction"
)

// uniqueViolation は PostgreSQL の一意制約違反コード
const uniqueViolation = "23505"

type bookingRow struct {
	ID         string    `db:"id"`
	ShowID     string    `db:"show_id"`
	UserID     string    `db:"user_id"`
	SeatNumber int       `db:"seat_number"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *bookingRow) toEntity() *booking.Booking {
	return &booking.Booking{
		ID: r.ID, ShowID: r.ShowID, UserID: r.UserID,
		SeatNumber: r.SeatNumber, Status: booking.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type BookingRepository struct{ db *sqlx.DB }

func NewBookingRepository(db *sqlx.DB) *BookingRepository { return &BookingRepository{db: db} }

// queryer は tx があればトランザクション内で、なければ接続プールで読み取る
func (r *BookingRepository) queryer(tx transaction.Tx) sqlx.QueryerContext {
	if t := UnwrapTx(tx); t != nil {
		return t
	}
	return r.db
}

func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	t := UnwrapTx(tx)
	if t == nil {
		return fmt.Errorf("予約作成にはトランザクションが必要です")
	}
	query := `INSERT INTO bookings (id, show_id, user_id, seat_number, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := t.ExecContext(ctx, query, b.ID, b.ShowID, b.UserID, b.SeatNumber, string(b.Status), b.CreatedAt, b.UpdatedAt); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return booking.ErrBookingConflict
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	query := `SELECT id, show_id, user_id, seat_number, status, created_at, updated_at FROM bookings WHERE id = $1`
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error) {
	query := `SELECT id, show_id, user_id, seat_number, status, created_at, updated_at FROM bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var rows []bookingRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	bookings := make([]*booking.Booking, len(rows))
	for i, row := range rows {
		bookings[i] = row.toEntity()
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *booking.Booking) error {
	t := UnwrapTx(tx)
	if t == nil {
		return fmt.Errorf("予約更新にはトランザクションが必要です")
	}
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := t.ExecContext(ctx, query, string(b.Status), b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) ConfirmedSeatExists(ctx context.Context, tx transaction.Tx, showID string, seatNumber int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE show_id = $1 AND seat_number = $2 AND status = 'confirmed')`
	var exists bool
	if err := sqlx.GetContext(ctx, r.queryer(tx), &exists, query, showID, seatNumber); err != nil {
		return false, fmt.Errorf("座席予約確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *BookingRepository) CountConfirmedByShowID(ctx context.Context, tx transaction.Tx, showID string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE show_id = $1 AND status = 'confirmed'`
	var count int
	if err := sqlx.GetContext(ctx, r.queryer(tx), &count, query, showID); err != nil {
		return 0, fmt.Errorf("予約数取得に失敗: %w", err)
	}
	return count, nil
}

var _ booking.Repository = (*BookingRepository)(nil)
