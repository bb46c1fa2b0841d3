// internal/services/review_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/internal/models"
)

func TestCreateReviewRecomputesAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	product := createTestProduct(t, db, "Blue Shirt", 19.99, 10)

	_, err := svc.CreateReview(alice.ID, &CreateReviewRequest{
		ProductID: product.ID,
		Rating:    4,
		Comment:   "Fits well",
	})
	require.NoError(t, err)

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.InDelta(t, 4.0, updated.Rating, 0.001)
	assert.EqualValues(t, 1, updated.ReviewCount)

	_, err = svc.CreateReview(bob.ID, &CreateReviewRequest{
		ProductID: product.ID,
		Rating:    2,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.InDelta(t, 3.0, updated.Rating, 0.001)
	assert.EqualValues(t, 2, updated.ReviewCount)
}

func TestCreateReviewOnePerUserAndProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	alice := createTestUser(t, db, "alice@example.com")
	product := createTestProduct(t, db, "Blue Shirt", 19.99, 10)

	_, err := svc.CreateReview(alice.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.CreateReview(alice.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	alice := createTestUser(t, db, "alice@example.com")

	_, err := svc.CreateReview(alice.ID, &CreateReviewRequest{ProductID: alice.ID, Rating: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateReviewOwnershipAndAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	product := createTestProduct(t, db, "Blue Shirt", 19.99, 10)

	review, err := svc.CreateReview(alice.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 2})
	require.NoError(t, err)

	_, err = svc.UpdateReview(review.ID, bob.ID, &UpdateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.UpdateReview(review.ID, alice.ID, &UpdateReviewRequest{Rating: 5})
	require.NoError(t, err)

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.InDelta(t, 5.0, updated.Rating, 0.001)
	assert.EqualValues(t, 1, updated.ReviewCount)
}

func TestDeleteReviewResetsAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	product := createTestProduct(t, db, "Blue Shirt", 19.99, 10)

	aliceReview, err := svc.CreateReview(alice.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 4})
	require.NoError(t, err)
	bobReview, err := svc.CreateReview(bob.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 2})
	require.NoError(t, err)

	// Non-owner without admin cannot delete.
	assert.ErrorIs(t, svc.DeleteReview(aliceReview.ID, bob.ID, false), ErrNotAuthorized)

	// Admin can delete anyone's review.
	require.NoError(t, svc.DeleteReview(aliceReview.ID, bob.ID, true))

	var updated models.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.InDelta(t, 2.0, updated.Rating, 0.001)
	assert.EqualValues(t, 1, updated.ReviewCount)

	require.NoError(t, svc.DeleteReview(bobReview.ID, bob.ID, false))

	// No reviews left: aggregate returns to zero.
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.InDelta(t, 0.0, updated.Rating, 0.001)
	assert.EqualValues(t, 0, updated.ReviewCount)
}
