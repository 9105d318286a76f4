package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/core/ports"
)

type EventHandler struct {
	eventService ports.EventService
}

func NewEventHandler(eventService ports.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type eventRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=300"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtefield=StartsAt"`
}

func (r eventRequest) input() ports.EventInput {
	return ports.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
	}
}

// Create schedules a membership event.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      eventRequest  true  "Event"
// @Success      201   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	event, err := h.eventService.Create(c.Request().Context(), claims, req.input())
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "event created", event)
}

// List returns all events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {object}  okResponse
// @Security     BearerAuth
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", events)
}

// Get returns one event.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id  path      string  true  "Event ID"
// @Success      200 {object}  okResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.eventService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", event)
}

// Update edits an event.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Event ID"
// @Param        body  body      eventRequest  true  "Event"
// @Success      200   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	event, err := h.eventService.Update(c.Request().Context(), claims, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "event updated", event)
}

// Delete cancels an event.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        id  path      string  true  "Event ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.eventService.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "event deleted", nil)
}
