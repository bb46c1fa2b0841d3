// internal/models/inquiry.go
package models

import (
	"github.com/google/uuid"
)

// Inquiry is a free-text contact message from a user.
type Inquiry struct {
	BaseModel
	UserID  uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Subject string        `json:"subject" gorm:"size:255"`
	Message string        `json:"message" gorm:"type:text;not null"`
	Status  InquiryStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
