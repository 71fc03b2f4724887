package handler

import (
	"github.com/customs/backend/internal/application/declaration"
	"github.com/customs/backend/internal/interfaces/http/dto"
	"github.com/customs/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// DeclarationHandler handles declaration lifecycle HTTP requests
type DeclarationHandler struct {
	BaseHandler
	declarationService *declaration.DeclarationService
}

// NewDeclarationHandler creates a new declaration handler
func NewDeclarationHandler(declarationService *declaration.DeclarationService) *DeclarationHandler {
	return &DeclarationHandler{
		declarationService: declarationService,
	}
}

// Create godoc
// @Summary      Submit declaration
// @Description  Store a new declaration, optionally assessing it immediately
// @Tags         declarations
// @Accept       json
// @Produce      json
// @Param        request body declaration.CreateDeclarationRequest true "Declaration content"
// @Success      201 {object} dto.Response{data=declaration.DeclarationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations [post]
func (h *DeclarationHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req declaration.CreateDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.declarationService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @Summary      List declarations
// @Description  List declarations within the caller's visibility scope
// @Tags         declarations
// @Produce      json
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size"
// @Param        status query string false "Filter by status"
// @Param        search query string false "Search reference, passport or representative"
// @Success      200 {object} dto.Response{data=[]declaration.DeclarationResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations [get]
func (h *DeclarationHandler) List(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var query listDeclarationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := declaration.ListDeclarationsFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   query.Status,
		Search:   query.Search,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	declarations, total, err := h.declarationService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, declarations, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get declaration
// @Description  Get a single declaration visible to the caller
// @Tags         declarations
// @Produce      json
// @Param        id path string true "Declaration ID"
// @Success      200 {object} dto.Response{data=declaration.DeclarationResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations/{id} [get]
func (h *DeclarationHandler) Get(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	declarationID, ok := h.bindDeclarationID(c)
	if !ok {
		return
	}

	result, err := h.declarationService.GetByID(c.Request.Context(), actor, declarationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @Summary      Amend declaration
// @Description  Amend declaration content. Payloads carrying status or
// @Description  reference fields are rejected outright; those fields belong
// @Description  to lifecycle transitions.
// @Tags         declarations
// @Accept       json
// @Produce      json
// @Param        id path string true "Declaration ID"
// @Param        request body declaration.UpdateDeclarationRequest true "Amended content"
// @Success      200 {object} dto.Response{data=declaration.DeclarationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations/{id} [put]
func (h *DeclarationHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	declarationID, ok := h.bindDeclarationID(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Could not read request body")
		return
	}
	if err := declaration.ValidateUpdatePayload(raw); err != nil {
		h.HandleError(c, err)
		return
	}

	var req declaration.UpdateDeclarationRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.declarationService.Update(c.Request.Context(), actor, declarationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Assess godoc
// @Summary      Assess declaration
// @Description  Transition a stored declaration to assessed, binding a unique
// @Description  reference pair to it
// @Tags         declarations
// @Produce      json
// @Param        id path string true "Declaration ID"
// @Success      200 {object} dto.Response{data=declaration.DeclarationResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations/{id}/assess [post]
func (h *DeclarationHandler) Assess(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	declarationID, ok := h.bindDeclarationID(c)
	if !ok {
		return
	}

	result, err := h.declarationService.Assess(c.Request.Context(), actor, declarationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel declaration
// @Description  Cancel a stored or assessed declaration with a reason
// @Tags         declarations
// @Accept       json
// @Produce      json
// @Param        id path string true "Declaration ID"
// @Param        request body declaration.CancelDeclarationRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=declaration.DeclarationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /declarations/{id}/cancel [post]
func (h *DeclarationHandler) Cancel(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	declarationID, ok := h.bindDeclarationID(c)
	if !ok {
		return
	}

	var req declaration.CancelDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.declarationService.Cancel(c.Request.Context(), actor, declarationID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SequenceStatus godoc
// @Summary      Reference counter status
// @Description  Report the current year's reference counter without consuming
// @Description  a number. Administrators only.
// @Tags         declarations
// @Produce      json
// @Success      200 {object} dto.Response{data=declaration.SequenceStatusResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /system/sequence [get]
func (h *DeclarationHandler) SequenceStatus(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	result, err := h.declarationService.SequenceStatus(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// listDeclarationsQuery binds declaration list query parameters
type listDeclarationsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

// bindDeclarationID parses the :id path parameter
func (h *DeclarationHandler) bindDeclarationID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid declaration ID")
		return uuid.Nil, false
	}
	return id, true
}
