package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-movie-seat-booking/internal/application"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/booking"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
)

// MovieServiceInterface は映画サービスのインターフェース
type MovieServiceInterface interface {
	CreateMovie(ctx context.Context, title string, durationMinutes int) (*movie.Movie, error)
	GetMovie(ctx context.Context, id string) (*movie.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]*movie.Movie, error)
}

// ShowServiceInterface は上映回サービスのインターフェース
type ShowServiceInterface interface {
	CreateShow(ctx context.Context, movieID, screenName string, startAt time.Time, totalSeats int) (*show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
	GetShowAvailability(ctx context.Context, id string) (*application.ShowAvailability, error)
	ListShowsByMovie(ctx context.Context, movieID string) ([]*application.ShowAvailability, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	Reserve(ctx context.Context, input application.ReserveInput) (*booking.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID string) (*booking.Booking, error)
	ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
}
