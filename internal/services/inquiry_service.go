// internal/services/inquiry_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type InquiryService struct {
	db *gorm.DB
}

type CreateInquiryRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=255"`
	Message string `json:"message" validate:"required,min=10"`
}

func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{db: db}
}

func (s *InquiryService) CreateInquiry(userID uuid.UUID, req *CreateInquiryRequest) (*models.Inquiry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	inquiry := &models.Inquiry{
		UserID:  userID,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.InquiryStatusOpen,
	}

	if err := s.db.Create(inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}

	return inquiry, nil
}

func (s *InquiryService) GetInquiry(id uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.db.First(&inquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &inquiry, nil
}

func (s *InquiryService) GetUserInquiries(userID uuid.UUID, params utils.PaginationParams) ([]models.Inquiry, int64, error) {
	query := s.db.Model(&models.Inquiry{}).Where("user_id = ?", userID)
	return s.listInquiries(query, params)
}

func (s *InquiryService) GetAllInquiries(params utils.PaginationParams, status *models.InquiryStatus) ([]models.Inquiry, int64, error) {
	query := s.db.Model(&models.Inquiry{}).Preload("User")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return s.listInquiries(query, params)
}

func (s *InquiryService) listInquiries(query *gorm.DB, params utils.PaginationParams) ([]models.Inquiry, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var inquiries []models.Inquiry
	if err := query.Find(&inquiries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch inquiries: %w", err)
	}

	return inquiries, total, nil
}

func (s *InquiryService) ResolveInquiry(id uuid.UUID) (*models.Inquiry, error) {
	inquiry, err := s.GetInquiry(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(inquiry).Update("status", models.InquiryStatusResolved).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve inquiry: %w", err)
	}

	return inquiry, nil
}

func (s *InquiryService) DeleteInquiry(id uuid.UUID) error {
	result := s.db.Delete(&models.Inquiry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}
