package handler

import (
	"github.com/customs/backend/internal/application/refdata"
	"github.com/gin-gonic/gin"
)

// RefDataHandler handles tariff and bank reference data HTTP requests
type RefDataHandler struct {
	BaseHandler
	refDataService *refdata.ReferenceDataService
}

// NewRefDataHandler creates a new reference data handler
func NewRefDataHandler(refDataService *refdata.ReferenceDataService) *RefDataHandler {
	return &RefDataHandler{
		refDataService: refDataService,
	}
}

// CountData wraps a row count for the count endpoints
type CountData struct {
	Count int64 `json:"count"`
}

// ImportTariffs godoc
// @Summary      Import tariff book
// @Description  Replace the tariff table with the rows of an uploaded CSV file
// @Tags         refdata
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Tariff CSV file"
// @Success      200 {object} dto.Response{data=refdata.ImportResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tariffs/import [post]
func (h *RefDataHandler) ImportTariffs(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.refDataService.ImportTariffs(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ValidateTariffs godoc
// @Summary      Validate tariff book file
// @Description  Check an uploaded tariff CSV for errors without importing it
// @Tags         refdata
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Tariff CSV file"
// @Success      200 {object} dto.Response{data=csvimport.ValidationResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tariffs/validate [post]
func (h *RefDataHandler) ValidateTariffs(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.refDataService.ValidateTariffFile(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SearchTariffs godoc
// @Summary      Search tariffs
// @Description  Look up tariff rows by CET code or description
// @Tags         refdata
// @Produce      json
// @Param        q query string true "Search query"
// @Success      200 {object} dto.Response{data=[]refdata.Tariff}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tariffs [get]
func (h *RefDataHandler) SearchTariffs(c *gin.Context) {
	tariffs, err := h.refDataService.SearchTariffs(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tariffs)
}

// CountTariffs godoc
// @Summary      Count tariffs
// @Tags         refdata
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Security     BearerAuth
// @Router       /tariffs/count [get]
func (h *RefDataHandler) CountTariffs(c *gin.Context) {
	count, err := h.refDataService.TariffCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// ImportBanks godoc
// @Summary      Import bank register
// @Description  Replace the bank table with the rows of an uploaded CSV file
// @Tags         refdata
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Bank CSV file"
// @Success      200 {object} dto.Response{data=refdata.ImportResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banks/import [post]
func (h *RefDataHandler) ImportBanks(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.refDataService.ImportBanks(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ValidateBanks godoc
// @Summary      Validate bank register file
// @Description  Check an uploaded bank CSV for errors without importing it
// @Tags         refdata
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Bank CSV file"
// @Success      200 {object} dto.Response{data=csvimport.ValidationResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banks/validate [post]
func (h *RefDataHandler) ValidateBanks(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file upload is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.refDataService.ValidateBankFile(c.Request.Context(), actor, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SearchBanks godoc
// @Summary      Search banks
// @Description  Look up bank rows by code or name
// @Tags         refdata
// @Produce      json
// @Param        q query string true "Search query"
// @Success      200 {object} dto.Response{data=[]refdata.Bank}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /banks [get]
func (h *RefDataHandler) SearchBanks(c *gin.Context) {
	banks, err := h.refDataService.SearchBanks(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banks)
}

// CountBanks godoc
// @Summary      Count banks
// @Tags         refdata
// @Produce      json
// @Success      200 {object} dto.Response{data=CountData}
// @Security     BearerAuth
// @Router       /banks/count [get]
func (h *RefDataHandler) CountBanks(c *gin.Context) {
	count, err := h.refDataService.BankCount(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}
