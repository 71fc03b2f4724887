package handler

import (
	"github.com/customs/backend/internal/application/identity"
	"github.com/customs/backend/internal/interfaces/http/dto"
	"github.com/customs/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user administration HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// List godoc
// @Summary      List users
// @Description  List accounts visible to the caller, with role and search filters
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size"
// @Param        role query string false "Filter by role"
// @Param        search query string false "Search service number, name or email"
// @Success      200 {object} dto.Response{data=[]identity.UserInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var filter identity.ListUsersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get user
// @Description  Get a single account by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	userID, ok := h.bindUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), actor, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update godoc
// @Summary      Update user
// @Description  Update an account's profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body identity.UpdateUserInput true "Fields to update"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	userID, ok := h.bindUserID(c)
	if !ok {
		return
	}

	var input identity.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Suspend godoc
// @Summary      Suspend user
// @Description  Suspend an account so it can no longer log in
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id}/suspend [post]
func (h *UserHandler) Suspend(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	userID, ok := h.bindUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Suspend(c.Request.Context(), actor, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "User suspended"})
}

// Reinstate godoc
// @Summary      Reinstate user
// @Description  Lift the suspension on an account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id}/reinstate [post]
func (h *UserHandler) Reinstate(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	userID, ok := h.bindUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Reinstate(c.Request.Context(), actor, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "User reinstated"})
}

// Delete godoc
// @Summary      Delete user
// @Description  Permanently remove an account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	userID, ok := h.bindUserID(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actor, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// bindUserID parses the :id path parameter
func (h *UserHandler) bindUserID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
