// internal/models/category.go
package models

import (
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name     string         `json:"name" gorm:"size:100;not null"`
	Slug     string         `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Features pq.StringArray `json:"features" gorm:"type:text[]"`
}
