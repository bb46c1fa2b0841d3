// internal/models/product.go
package models

import (
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255;not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int            `json:"stock" gorm:"default:0"`
	Category    string         `json:"category" gorm:"size:100;index"` // denormalized name, no FK to Category
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Rating      float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int64          `json:"review_count" gorm:"default:0"`

	// Relationships
	Reviews []Review `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}
