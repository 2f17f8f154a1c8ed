package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
)

type movieRow struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	DurationMinutes int       `db:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *movieRow) toEntity() *movie.Movie {
	return &movie.Movie{
		ID: r.ID, Title: r.Title, DurationMinutes: r.DurationMinutes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type MovieRepository struct{ db *sqlx.DB }

func NewMovieRepository(db *sqlx.DB) *MovieRepository { return &MovieRepository{db: db} }

func (r *MovieRepository) Create(ctx context.Context, m *movie.Movie) error {
	query := `INSERT INTO movies (id, title, duration_minutes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Title, m.DurationMinutes, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("映画作成に失敗: %w", err)
	}
	return nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (*movie.Movie, error) {
	query := `SELECT id, title, duration_minutes, created_at, updated_at FROM movies WHERE id = $1`
	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*movie.Movie, error) {
	query := `SELECT id, title, duration_minutes, created_at, updated_at FROM movies WHERE title = $1`
	var row movieRow
	if err := r.db.GetContext(ctx, &row, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movie.ErrMovieNotFound
		}
		return nil, fmt.Errorf("映画取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *MovieRepository) List(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	query := `SELECT id, title, duration_minutes, created_at, updated_at FROM movies ORDER BY title LIMIT $1 OFFSET $2`
	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("映画一覧取得に失敗: %w", err)
	}
	movies := make([]*movie.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toEntity()
	}
	return movies, nil
}

var _ movie.Repository = (*MovieRepository)(nil)
