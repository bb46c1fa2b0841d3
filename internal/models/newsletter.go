// internal/models/newsletter.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is one newsletter record per (email, user). Unsubscribing
// flips Status to unsubscribed instead of deleting the row, so subscription
// history is retained.
type Subscription struct {
	BaseModel
	Email          string             `json:"email" gorm:"size:255;not null;index:idx_subscriptions_email_user,unique"`
	UserID         *uuid.UUID         `json:"user_id,omitempty" gorm:"type:uuid;index:idx_subscriptions_email_user,unique"`
	Status         SubscriptionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Preferences    JSONB              `json:"preferences" gorm:"type:jsonb"`
	ConfirmToken   string             `json:"-" gorm:"size:64;index"`
	ConfirmedAt    *time.Time         `json:"confirmed_at,omitempty"`
	UnsubscribedAt *time.Time         `json:"unsubscribed_at,omitempty"`
}
