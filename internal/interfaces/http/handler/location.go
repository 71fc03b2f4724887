package handler

import (
	"github.com/customs/backend/internal/application/location"
	"github.com/customs/backend/internal/interfaces/http/dto"
	"github.com/customs/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationHandler handles command location HTTP requests
type LocationHandler struct {
	BaseHandler
	locationService *location.CommandLocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *location.CommandLocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// Create godoc
// @Summary      Create command location
// @Description  Register a new command location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body location.CreateLocationRequest true "Location details"
// @Success      201 {object} dto.Response{data=location.LocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req location.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.locationService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @Summary      List command locations
// @Tags         locations
// @Produce      json
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size"
// @Param        search query string false "Search name or code"
// @Success      200 {object} dto.Response{data=[]location.LocationResponse}
// @Security     BearerAuth
// @Router       /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	var filter location.ListLocationsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	locations, total, err := h.locationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, locations, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get command location
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID"
// @Success      200 {object} dto.Response{data=location.LocationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	locationID, ok := h.bindLocationID(c)
	if !ok {
		return
	}

	result, err := h.locationService.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @Summary      Rename command location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        id path string true "Location ID"
// @Param        request body location.UpdateLocationRequest true "New name"
// @Success      200 {object} dto.Response{data=location.LocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	locationID, ok := h.bindLocationID(c)
	if !ok {
		return
	}

	var req location.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.locationService.Update(c.Request.Context(), actor, locationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete command location
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	locationID, ok := h.bindLocationID(c)
	if !ok {
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), actor, locationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// bindLocationID parses the :id path parameter
func (h *LocationHandler) bindLocationID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid location ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid location ID")
		return uuid.Nil, false
	}
	return id, true
}
