package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List returns members, optionally filtered by status.
//
// @Summary      List members
// @Tags         users
// @Produce      json
// @Param        status  query     string  false  "Filter by status (pending, approved, rejected)"
// @Success      200     {object}  okResponse
// @Failure      403     {object}  errorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), claims, c.QueryParam("status"))
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return ok(c, http.StatusOK, "", out)
}

// ChangeRole reassigns a member's role.
//
// @Summary      Change a member's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.userService.ChangeRole(c.Request().Context(), claims, c.Param("id"), req.Role); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "role updated", nil)
}

// ChangeStatus approves or rejects a membership application.
//
// @Summary      Change a member's status
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "User ID"
// @Param        body  body      changeStatusRequest  true  "New status"
// @Success      200   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/{id}/status [put]
func (h *UserHandler) ChangeStatus(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.userService.ChangeStatus(c.Request().Context(), claims, c.Param("id"), req.Status); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "status updated", nil)
}

// Delete removes a member account and revokes its sessions.
//
// @Summary      Delete a member
// @Tags         users
// @Produce      json
// @Param        id  path      string  true  "User ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "user deleted", nil)
}
