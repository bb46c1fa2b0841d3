// internal/services/newsletter_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type NewsletterService struct {
	db *gorm.DB
}

type SubscribeRequest struct {
	Email       string                 `json:"email" validate:"required,email"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
}

type UpdatePreferencesRequest struct {
	Preferences map[string]interface{} `json:"preferences" validate:"required"`
}

func NewNewsletterService(db *gorm.DB) *NewsletterService {
	return &NewsletterService{db: db}
}

// Subscribe creates a pending subscription with a confirmation token. A
// previously unsubscribed record is revived back to pending instead of
// inserting a duplicate.
func (s *NewsletterService) Subscribe(userID *uuid.UUID, req *SubscribeRequest) (*models.Subscription, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	token, err := utils.GenerateConfirmToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	var existing models.Subscription
	query := s.db.Where("email = ?", req.Email)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("user_id IS NULL")
	}

	if err := query.First(&existing).Error; err == nil {
		if existing.Status != models.SubscriptionStatusUnsubscribed {
			return nil, ErrAlreadySubscribed
		}

		updates := map[string]interface{}{
			"status":          models.SubscriptionStatusPending,
			"confirm_token":   token,
			"unsubscribed_at": nil,
		}
		if req.Preferences != nil {
			updates["preferences"] = models.JSONB(req.Preferences)
		}

		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to revive subscription: %w", err)
		}
		return &existing, nil
	}

	subscription := &models.Subscription{
		Email:        req.Email,
		UserID:       userID,
		Status:       models.SubscriptionStatusPending,
		Preferences:  models.JSONB(req.Preferences),
		ConfirmToken: token,
	}

	if err := s.db.Create(subscription).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return subscription, nil
}

// Confirm flips a pending subscription to active when the token matches.
func (s *NewsletterService) Confirm(token string) (*models.Subscription, error) {
	if token == "" {
		return nil, ErrInvalidConfirmToken
	}

	var subscription models.Subscription
	if err := s.db.Where("confirm_token = ? AND status = ?", token, models.SubscriptionStatusPending).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidConfirmToken
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&subscription).Updates(map[string]interface{}{
		"status":        models.SubscriptionStatusActive,
		"confirmed_at":  &now,
		"confirm_token": "",
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to confirm subscription: %w", err)
	}

	return &subscription, nil
}

func (s *NewsletterService) UpdatePreferences(id uuid.UUID, req *UpdatePreferencesRequest) (*models.Subscription, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	subscription, err := s.GetSubscription(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(subscription).
		Update("preferences", models.JSONB(req.Preferences)).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return subscription, nil
}

// Unsubscribe flips the status to unsubscribed instead of deleting the row,
// so subscription history is retained.
func (s *NewsletterService) Unsubscribe(id uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.GetSubscription(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(subscription).Updates(map[string]interface{}{
		"status":          models.SubscriptionStatusUnsubscribed,
		"unsubscribed_at": &now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return subscription, nil
}

func (s *NewsletterService) GetSubscription(id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := s.db.First(&subscription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &subscription, nil
}

func (s *NewsletterService) ListSubscriptions(params utils.PaginationParams, status *models.SubscriptionStatus) ([]models.Subscription, int64, error) {
	query := s.db.Model(&models.Subscription{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	allowedSortFields := []string{"created_at", "email", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var subscriptions []models.Subscription
	if err := query.Find(&subscriptions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	return subscriptions, total, nil
}

// ExportCSV streams all subscriptions as CSV rows.
func (s *NewsletterService) ExportCSV(w io.Writer) error {
	var subscriptions []models.Subscription
	if err := s.db.Order("created_at DESC").Find(&subscriptions).Error; err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"email", "status", "subscribed_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, sub := range subscriptions {
		if err := cw.Write([]string{
			sub.Email,
			string(sub.Status),
			sub.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	return cw.Error()
}
