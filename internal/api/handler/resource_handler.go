package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberbase/membership-api/internal/core/domain"
	"github.com/memberbase/membership-api/internal/core/ports"
)

type ResourceHandler struct {
	resourceService ports.ResourceService
}

func NewResourceHandler(resourceService ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

type createResourceRequest struct {
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	FileRef     string `json:"file_ref"`
}

// Create publishes a new resource. The uploader is the caller; who may
// create which type is decided by the policy matrix.
//
// @Summary      Create a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        body  body      createResourceRequest  true  "Resource"
// @Success      201   {object}  okResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.resourceService.Create(c.Request().Context(), claims, ports.CreateResourceInput{
		Type:        domain.ResourceType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		FileRef:     req.FileRef,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "resource created", res)
}

// List returns resources, optionally filtered by type.
//
// @Summary      List resources
// @Tags         resources
// @Produce      json
// @Param        type  query     string  false  "Filter by type (framework, whitepaper, product)"
// @Success      200   {object}  okResponse
// @Failure      422   {object}  errorResponse
// @Security     BearerAuth
// @Router       /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	typ := domain.ResourceType(c.QueryParam("type"))
	if typ != "" && !domain.ValidResourceType(typ) {
		return domain.ErrInvalidResourceType
	}

	resources, err := h.resourceService.List(c.Request().Context(), typ)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", resources)
}

// Delete removes a resource. Admins may delete any resource, uploaders
// their own.
//
// @Summary      Delete a resource
// @Tags         resources
// @Produce      json
// @Param        id  path      string  true  "Resource ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.resourceService.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "resource deleted", nil)
}

// Download resolves a resource's file reference for roles the download gate
// admits.
//
// @Summary      Download a resource attachment
// @Tags         resources
// @Produce      json
// @Param        id  path      string  true  "Resource ID"
// @Success      200 {object}  okResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Security     BearerAuth
// @Router       /resources/{id}/download [get]
func (h *ResourceHandler) Download(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	fileRef, err := h.resourceService.Download(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", map[string]string{"file_ref": fileRef})
}
