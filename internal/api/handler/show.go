package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-movie-seat-booking/internal/application"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/show"
)

type ShowHandler struct {
	service ShowServiceInterface
}

func NewShowHandler(s ShowServiceInterface) *ShowHandler {
	return &ShowHandler{service: s}
}

type CreateShowRequest struct {
	MovieID    string    `json:"movie_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	ScreenName string    `json:"screen_name" validate:"required" example:"スクリーン1"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	TotalSeats int       `json:"total_seats" validate:"required,min=1" example:"120"`
}

type ShowResponse struct {
	ID             string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MovieID        string    `json:"movie_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ScreenName     string    `json:"screen_name" example:"スクリーン1"`
	StartAt        time.Time `json:"start_at"`
	TotalSeats     int       `json:"total_seats" example:"120"`
	AvailableSeats *int      `json:"available_seats,omitempty" example:"87"`
}

type AvailabilityResponse struct {
	ShowID         string `json:"show_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TotalSeats     int    `json:"total_seats" example:"120"`
	AvailableSeats int    `json:"available_seats" example:"87"`
}

func toShowResponse(sh *show.Show) ShowResponse {
	return ShowResponse{
		ID: sh.ID, MovieID: sh.MovieID, ScreenName: sh.ScreenName,
		StartAt: sh.StartAt, TotalSeats: sh.TotalSeats,
	}
}

func toShowWithAvailabilityResponse(sa *application.ShowAvailability) ShowResponse {
	resp := toShowResponse(sa.Show)
	available := sa.AvailableSeats
	resp.AvailableSeats = &available
	return resp
}

// Create godoc
// @Summary 上映回を作成
// @Description 映画の新しい上映回を登録します
// @Tags shows
// @Accept json
// @Produce json
// @Param request body CreateShowRequest true "上映回情報"
// @Success 201 {object} ShowResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "映画が存在しない"
// @Router /shows [post]
func (h *ShowHandler) Create(c echo.Context) error {
	var req CreateShowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sh, err := h.service.CreateShow(c.Request().Context(), req.MovieID, req.ScreenName, req.StartAt, req.TotalSeats)
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toShowResponse(sh))
}

// GetAvailability godoc
// @Summary 上映回の空席数を取得
// @Description 上映回の現在の空席数を取得します
// @Tags shows
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 404 {object} map[string]string
// @Router /shows/{id}/availability [get]
func (h *ShowHandler) GetAvailability(c echo.Context) error {
	sa, err := h.service.GetShowAvailability(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, show.ErrShowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		ShowID:         sa.Show.ID,
		TotalSeats:     sa.Show.TotalSeats,
		AvailableSeats: sa.AvailableSeats,
	})
}

// GetByID godoc
// @Summary 上映回を取得
// @Description 指定IDの上映回を取得します
// @Tags shows
// @Produce json
// @Param id path string true "上映回ID"
// @Success 200 {object} ShowResponse
// @Failure 404 {object} map[string]string
// @Router /shows/{id} [get]
func (h *ShowHandler) GetByID(c echo.Context) error {
	sh, err := h.service.GetShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, show.ErrShowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toShowResponse(sh))
}
