package application

import (
	"context"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
)

// MovieService は映画の登録と参照を担うアプリケーションサービス
type MovieService struct {
	movieRepo movie.Repository
}

// NewMovieService は新しいMovieServiceを作成する
func NewMovieService(movieRepo movie.Repository) *MovieService {
	return &MovieService{movieRepo: movieRepo}
}

// CreateMovie は新しい映画を登録する
func (s *MovieService) CreateMovie(ctx context.Context, title string, durationMinutes int) (*movie.Movie, error) {
	m := movie.NewMovie(title, durationMinutes)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.movieRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMovie はIDから映画を取得する
func (s *MovieService) GetMovie(ctx context.Context, id string) (*movie.Movie, error) {
	return s.movieRepo.GetByID(ctx, id)
}

// ListMovies は映画一覧を取得する
func (s *MovieService) ListMovies(ctx context.Context, limit, offset int) ([]*movie.Movie, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.movieRepo.List(ctx, limit, offset)
}
