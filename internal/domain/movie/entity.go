package movie

import (
	"time"

	"github.com/google/uuid"
)

// Movie は映画エンティティを表す
type Movie struct {
	ID              string
	Title           string
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewMovie は新しい映画を作成する
func NewMovie(title string, durationMinutes int) *Movie {
	now := time.Now()
	return &Movie{
		ID:              uuid.NewString(),
		Title:           title,
		DurationMinutes: durationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate は映画の検証を行う
func (m *Movie) Validate() error {
	if m.Title == "" {
		return ErrTitleRequired
	}
	if m.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
