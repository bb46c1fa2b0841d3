// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

// Review binds one rating/comment to a (user, product) pair. Uniqueness is
// enforced both by an application-level existence check and a composite index.
type Review struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_reviews_user_product,unique"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_reviews_user_product,unique"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`

	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
