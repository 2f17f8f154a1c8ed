package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/transaction"
)

type showRow struct {
	ID         string    `db:"id"`
	MovieID    string    `db:"movie_id"`
	ScreenName string    `db:"screen_name"`
	StartAt    time.Time `db:"start_at"`
	TotalSeats int       `db:"total_seats"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *showRow) toEntity() *show.Show {
	return &show.Show{
		ID: r.ID, MovieID: r.MovieID, ScreenName: r.ScreenName,
		StartAt: r.StartAt, TotalSeats: r.TotalSeats,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const showColumns = `id, movie_id, screen_name, start_at, total_seats, created_at, updated_at`

type ShowRepository struct{ db *sqlx.DB }

func NewShowRepository(db *sqlx.DB) *ShowRepository { return &ShowRepository{db: db} }

func (r *ShowRepository) Create(ctx context.Context, s *show.Show) error {
	query := `INSERT INTO shows (id, movie_id, screen_name, start_at, total_seats, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.MovieID, s.ScreenName, s.StartAt, s.TotalSeats, s.CreatedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("上映回作成に失敗: %w", err)
	}
	return nil
}

func (r *ShowRepository) GetByID(ctx context.Context, id string) (*show.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`
	var row showRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("上映回取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は上映回の行ロックを取得する
// ロックはトランザクションのコミットまたはロールバックまで保持される
func (r *ShowRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*show.Show, error) {
	t := UnwrapTx(tx)
	if t == nil {
		return nil, fmt.Errorf("行ロックにはトランザクションが必要です")
	}
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1 FOR UPDATE`
	var row showRow
	if err := t.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, show.ErrShowNotFound
		}
		return nil, fmt.Errorf("上映回ロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ShowRepository) ListByMovieID(ctx context.Context, movieID string) ([]*show.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE movie_id = $1 ORDER BY start_at`
	var rows []showRow
	if err := r.db.SelectContext(ctx, &rows, query, movieID); err != nil {
		return nil, fmt.Errorf("上映回一覧取得に失敗: %w", err)
	}
	shows := make([]*show.Show, len(rows))
	for i, row := range rows {
		shows[i] = row.toEntity()
	}
	return shows, nil
}

func (r *ShowRepository) ListUpcoming(ctx context.Context, limit int) ([]*show.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE start_at > NOW() ORDER BY start_at LIMIT $1`
	var rows []showRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("上映予定一覧取得に失敗: %w", err)
	}
	shows := make([]*show.Show, len(rows))
	for i, row := range rows {
		shows[i] = row.toEntity()
	}
	return shows, nil
}

var _ show.Repository = (*ShowRepository)(nil)
