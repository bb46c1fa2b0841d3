// internal/handlers/inquiry.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/services"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type InquiryHandler struct {
	inquiryService *services.InquiryService
}

func NewInquiryHandler(inquiryService *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
	}
}

// POST /inquiries
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	inquiry, err := h.inquiryService.CreateInquiry(userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"inquiry": inquiry})
}

// GET /inquiries
func (h *InquiryHandler) GetMyInquiries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	inquiries, total, err := h.inquiryService.GetUserInquiries(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(inquiries, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /inquiries/:id
func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid inquiry ID", nil)
		return
	}

	inquiry, err := h.inquiryService.GetInquiry(id)
	if err != nil {
		utils.NotFoundResponse(c, "Inquiry")
		return
	}

	if inquiry.UserID != userID && !isAdmin(c) {
		utils.ForbiddenResponse(c, "You do not have access to this inquiry")
		return
	}

	utils.SuccessResponse(c, gin.H{"inquiry": inquiry})
}

// GET /admin/inquiries
func (h *InquiryHandler) GetAllInquiries(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.InquiryStatus
	if v := c.Query("status"); v != "" {
		s := models.InquiryStatus(v)
		status = &s
	}

	inquiries, total, err := h.inquiryService.GetAllInquiries(params, status)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(inquiries, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/inquiries/:id/resolve
func (h *InquiryHandler) ResolveInquiry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid inquiry ID", nil)
		return
	}

	inquiry, err := h.inquiryService.ResolveInquiry(id)
	if err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			utils.NotFoundResponse(c, "Inquiry")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"inquiry": inquiry})
}

// DELETE /admin/inquiries/:id
func (h *InquiryHandler) DeleteInquiry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid inquiry ID", nil)
		return
	}

	if err := h.inquiryService.DeleteInquiry(id); err != nil {
		if errors.Is(err, services.ErrInquiryNotFound) {
			utils.NotFoundResponse(c, "Inquiry")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Inquiry deleted"})
}
