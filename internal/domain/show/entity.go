package show

import (
	"time"

	"github.com/google/uuid"
)

// Show は上映回エンティティを表す
// TotalSeats は予約が存在する間は不変（座席数変更の操作は提供しない）
type Show struct {
	ID         string
	MovieID    string
	ScreenName string
	StartAt    time.Time
	TotalSeats int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewShow は新しい上映回を作成する
func NewShow(movieID, screenName string, startAt time.Time, totalSeats int) *Show {
	now := time.Now()
	return &Show{
		ID:         uuid.NewString(),
		MovieID:    movieID,
		ScreenName: screenName,
		StartAt:    startAt,
		TotalSeats: totalSeats,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasSeat は座席番号がこの上映回の範囲内かを返す
func (s *Show) HasSeat(seatNumber int) bool {
	return seatNumber >= 1 && seatNumber <= s.TotalSeats
}

// Validate は上映回の検証を行う
func (s *Show) Validate() error {
	if s.MovieID == "" {
		return ErrMovieIDRequired
	}
	if s.ScreenName == "" {
		return ErrScreenNameRequired
	}
	if s.TotalSeats <= 0 {
		return ErrInvalidTotalSeats
	}
	return nil
}
