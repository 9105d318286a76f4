package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/core/ports"
)

type NewsHandler struct {
	newsService ports.NewsService
}

func NewNewsHandler(newsService ports.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

type newsRequest struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Body  string `json:"body" validate:"required,max=10000"`
}

// Create publishes an announcement.
//
// @Summary      Publish an announcement
// @Tags         news
// @Accept       json
// @Produce      json
// @Param        body  body      newsRequest  true  "Announcement"
// @Success      201   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /news [post]
func (h *NewsHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req newsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.newsService.Create(c.Request().Context(), claims, ports.NewsInput{Title: req.Title, Body: req.Body})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "announcement published", item)
}

// List returns all announcements.
//
// @Summary      List announcements
// @Tags         news
// @Produce      json
// @Success      200  {object}  okResponse
// @Security     BearerAuth
// @Router       /news [get]
func (h *NewsHandler) List(c echo.Context) error {
	items, err := h.newsService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", items)
}

// Get returns one announcement.
//
// @Summary      Get an announcement
// @Tags         news
// @Produce      json
// @Param        id  path      string  true  "News ID"
// @Success      200 {object}  okResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /news/{id} [get]
func (h *NewsHandler) Get(c echo.Context) error {
	item, err := h.newsService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", item)
}

// Update edits an announcement.
//
// @Summary      Update an announcement
// @Tags         news
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "News ID"
// @Param        body  body      newsRequest  true  "Announcement"
// @Success      200   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /news/{id} [put]
func (h *NewsHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req newsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.newsService.Update(c.Request().Context(), claims, c.Param("id"), ports.NewsInput{Title: req.Title, Body: req.Body})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "announcement updated", item)
}

// Delete removes an announcement.
//
// @Summary      Delete an announcement
// @Tags         news
// @Produce      json
// @Param        id  path      string  true  "News ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /news/{id} [delete]
func (h *NewsHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.newsService.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "announcement deleted", nil)
}
