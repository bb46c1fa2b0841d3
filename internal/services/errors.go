// internal/services/errors.go
package services

import "errors"

// Sentinel errors handlers translate into HTTP status codes.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrInvalidPassword = errors.New("incorrect password")
	ErrNotAuthorized   = errors.New("not authorized")

	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")

	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderFinalized    = errors.New("order is completed or cancelled and can no longer be modified")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidStatus     = errors.New("invalid order status")

	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("product already reviewed by this user")

	ErrInquiryNotFound = errors.New("inquiry not found")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("email is already subscribed")
	ErrInvalidConfirmToken  = errors.New("invalid confirmation token")
)
