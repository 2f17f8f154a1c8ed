package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-movie-seat-booking/internal/domain/movie"
)

type MovieHandler struct {
	movieService MovieServiceInterface
	showService  ShowServiceInterface
}

func NewMovieHandler(ms MovieServiceInterface, ss ShowServiceInterface) *MovieHandler {
	return &MovieHandler{movieService: ms, showService: ss}
}

type CreateMovieRequest struct {
	Title           string `json:"title" validate:"required" example:"七人の侍"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1" example:"207"`
}

type MovieResponse struct {
	ID              string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title           string `json:"title" example:"七人の侍"`
	DurationMinutes int    `json:"duration_minutes" example:"207"`
}

func toMovieResponse(m *movie.Movie) MovieResponse {
	return MovieResponse{ID: m.ID, Title: m.Title, DurationMinutes: m.DurationMinutes}
}

// Create godoc
// @Summary 映画を登録
// @Description 新しい映画を登録します
// @Tags movies
// @Accept json
// @Produce json
// @Param request body CreateMovieRequest true "映画情報"
// @Success 201 {object} MovieResponse
// @Failure 400 {object} map[string]string
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m, err := h.movieService.CreateMovie(c.Request().Context(), req.Title, req.DurationMinutes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toMovieResponse(m))
}

// List godoc
// @Summary 映画一覧を取得
// @Description 登録済みの映画一覧を取得します
// @Tags movies
// @Produce json
// @Param limit query int false "取得件数" default(50)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} MovieResponse
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	movies, err := h.movieService.ListMovies(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = toMovieResponse(m)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 映画を取得
// @Description 指定IDの映画を取得します
// @Tags movies
// @Produce json
// @Param id path string true "映画ID"
// @Success 200 {object} MovieResponse
// @Failure 404 {object} map[string]string
// @Router /movies/{id} [get]
func (h *MovieHandler) GetByID(c echo.Context) error {
	m, err := h.movieService.GetMovie(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toMovieResponse(m))
}

// ListShows godoc
// @Summary 映画の上映回一覧を取得
// @Description 指定映画の上映回一覧を空席数付きで取得します
// @Tags movies
// @Produce json
// @Param id path string true "映画ID"
// @Success 200 {array} ShowResponse
// @Failure 404 {object} map[string]string
// @Router /movies/{id}/shows [get]
func (h *MovieHandler) ListShows(c echo.Context) error {
	shows, err := h.showService.ListShowsByMovie(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ShowResponse, len(shows))
	for i, sa := range shows {
		resp[i] = toShowWithAvailabilityResponse(sa)
	}
	return c.JSON(http.StatusOK, resp)
}
