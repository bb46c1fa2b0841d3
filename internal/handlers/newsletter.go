// internal/handlers/newsletter.go
package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/services"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
	}
}

// POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Subscription works with or without a logged-in user.
	var userID *uuid.UUID
	if idStr, exists := utils.GetUserIDFromContext(c); exists {
		if id, err := uuid.Parse(idStr); err == nil {
			userID = &id
		}
	}

	subscription, err := h.newsletterService.Subscribe(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			utils.BadRequestResponse(c, "This email is already subscribed", nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"subscription": subscription})
}

// GET /newsletter/confirm/:token
func (h *NewsletterHandler) Confirm(c *gin.Context) {
	subscription, err := h.newsletterService.Confirm(c.Param("token"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfirmToken) {
			utils.BadRequestResponse(c, "Invalid or expired confirmation token", nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"subscription": subscription})
}

// PUT /newsletter/:id/preferences
func (h *NewsletterHandler) UpdatePreferences(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subscription ID", nil)
		return
	}

	var req services.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	subscription, err := h.newsletterService.UpdatePreferences(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			utils.NotFoundResponse(c, "Subscription")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"subscription": subscription})
}

// POST /newsletter/:id/unsubscribe
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subscription ID", nil)
		return
	}

	subscription, err := h.newsletterService.Unsubscribe(id)
	if err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			utils.NotFoundResponse(c, "Subscription")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"subscription": subscription})
}

// GET /admin/newsletter
func (h *NewsletterHandler) GetSubscriptions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.SubscriptionStatus
	if v := c.Query("status"); v != "" {
		s := models.SubscriptionStatus(v)
		status = &s
	}

	subscriptions, total, err := h.newsletterService.ListSubscriptions(params, status)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(subscriptions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/newsletter/export
func (h *NewsletterHandler) ExportSubscriptions(c *gin.Context) {
	filename := fmt.Sprintf("subscriptions_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.newsletterService.ExportCSV(c.Writer); err != nil {
		utils.InternalErrorResponse(c, err.Error())
	}
}
