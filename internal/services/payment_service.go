// internal/services/payment_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/shoplane/shoplane-backend/internal/config"
	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

// PaymentService records a payment intent per order. With a Stripe key
// configured it creates a real intent; otherwise it falls back to a locally
// generated stub, since no payment gateway is required for checkout to work.
type PaymentService struct {
	cfg     *config.Config
	enabled bool
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	enabled := cfg.Payment.StripeSecretKey != ""
	if enabled {
		stripe.Key = cfg.Payment.StripeSecretKey
	}

	return &PaymentService{
		cfg:     cfg,
		enabled: enabled,
	}
}

func (s *PaymentService) CreateIntent(userID uuid.UUID, amount float64) (models.PaymentIntent, error) {
	currency := s.cfg.Payment.Currency
	if currency == "" {
		currency = "usd"
	}

	if !s.enabled {
		return s.localStub(amount, currency)
	}

	// Stripe amounts are in cents
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return models.PaymentIntent{
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       models.PaymentStatusPending,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (s *PaymentService) localStub(amount float64, currency string) (models.PaymentIntent, error) {
	suffix, err := utils.GenerateRandomString(16)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("failed to generate stub payment id: %w", err)
	}

	return models.PaymentIntent{
		PaymentID: "pi_local_" + suffix,
		Status:    models.PaymentStatusPending,
		Amount:    amount,
		Currency:  currency,
	}, nil
}
