// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is embedded into orders; there is no separate address book.
type ShippingAddress struct {
	FullName   string `json:"full_name" gorm:"size:100"`
	Line1      string `json:"line1" gorm:"size:255"`
	Line2      string `json:"line2,omitempty" gorm:"size:255"`
	City       string `json:"city" gorm:"size:100"`
	PostalCode string `json:"postal_code" gorm:"size:20"`
	Country    string `json:"country" gorm:"size:100"`
	Phone      string `json:"phone,omitempty" gorm:"size:30"`
}

// PaymentIntent is the stub recorded at checkout. When Stripe is configured
// it mirrors the real intent, otherwise it carries a locally generated ID.
type PaymentIntent struct {
	PaymentID    string        `json:"payment_id" gorm:"size:100"`
	ClientSecret string        `json:"client_secret,omitempty" gorm:"size:255"`
	Status       PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Amount       float64       `json:"amount" gorm:"type:decimal(10,2)"`
	Currency     string        `json:"currency" gorm:"size:10"`
}

type Order struct {
	BaseModel
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping    ShippingAddress `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	Payment     PaymentIntent   `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);default:'Not Processed';index"`
	TotalAmount float64         `json:"total_amount" gorm:"type:decimal(10,2)"`
	PlacedAt    time.Time       `json:"placed_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null"`
	Name      string    `json:"name" gorm:"size:255"` // snapshot at purchase time
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2)"`
	Quantity  int       `json:"quantity" gorm:"not null"`
}
