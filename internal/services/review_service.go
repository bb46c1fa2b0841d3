// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,rating"`
	Comment   string    `json:"comment,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating,omitempty" validate:"omitempty,rating"`
	Comment string `json:"comment,omitempty"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview enforces one review per (user, product) and recomputes the
// product aggregate in the same transaction, so the rating never drifts from
// the stored reviews.
func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review *models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var existing models.Review
		if err := tx.Where("user_id = ? AND product_id = ?", userID, req.ProductID).
			First(&existing).Error; err == nil {
			return ErrDuplicateReview
		}

		review = &models.Review{
			UserID:    userID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return s.recomputeAggregate(tx, req.ProductID)
	})

	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *ReviewService) GetReview(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) GetProductReviews(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID).Preload("User")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, total, nil
}

func (s *ReviewService) UpdateReview(id uuid.UUID, userID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review *models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if existing.UserID != userID {
			return ErrNotAuthorized
		}

		updates := make(map[string]interface{})
		if req.Rating != 0 {
			updates["rating"] = req.Rating
		}
		if req.Comment != "" {
			updates["comment"] = req.Comment
		}

		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
		}

		review = &existing
		return s.recomputeAggregate(tx, existing.ProductID)
	})

	if err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview removes the review and recomputes the product aggregate to the
// mean of the remaining reviews, or zero when none remain.
func (s *ReviewService) DeleteReview(id uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if review.UserID != userID && !isAdmin {
			return ErrNotAuthorized
		}

		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return s.recomputeAggregate(tx, review.ProductID)
	})
}

// recomputeAggregate derives rating and review_count from a query over the
// stored reviews rather than incremental arithmetic.
func (s *ReviewService) recomputeAggregate(tx *gorm.DB, productID uuid.UUID) error {
	var stats struct {
		Count  int64
		Rating float64
	}

	if err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS rating").
		Scan(&stats).Error; err != nil {
		return fmt.Errorf("failed to compute review aggregate: %w", err)
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       stats.Rating,
			"review_count": stats.Count,
		}).Error; err != nil {
		return fmt.Errorf("failed to update product aggregate: %w", err)
	}

	return nil
}
