// internal/services/newsletter_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/internal/models"
)

func TestSubscribeConfirmFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNewsletterService(db)

	sub, err := svc.Subscribe(nil, &SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPending, sub.Status)
	require.NotEmpty(t, sub.ConfirmToken)

	_, err = svc.Confirm("wrong-token")
	assert.ErrorIs(t, err, ErrInvalidConfirmToken)

	confirmed, err := svc.Confirm(sub.ConfirmToken)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, confirmed.ID)

	var stored models.Subscription
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
	assert.Empty(t, stored.ConfirmToken)
}

func TestSubscribeDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNewsletterService(db)

	_, err := svc.Subscribe(nil, &SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = svc.Subscribe(nil, &SubscribeRequest{Email: "reader@example.com"})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestUnsubscribeRetainsRecord(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNewsletterService(db)

	sub, err := svc.Subscribe(nil, &SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	_, err = svc.Confirm(sub.ConfirmToken)
	require.NoError(t, err)

	_, err = svc.Unsubscribe(sub.ID)
	require.NoError(t, err)

	// The row survives with flipped status, it is not deleted.
	var stored models.Subscription
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusUnsubscribed, stored.Status)
	assert.NotNil(t, stored.UnsubscribedAt)

	// Re-subscribing revives the same record back to pending.
	revived, err := svc.Subscribe(nil, &SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, revived.ID)

	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusPending, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("email = ?", "reader@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubscriptionPreferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewNewsletterService(db)

	user := createTestUser(t, db, "reader@example.com")
	sub, err := svc.Subscribe(&user.ID, &SubscribeRequest{
		Email:       "reader@example.com",
		Preferences: map[string]interface{}{"weekly": true},
	})
	require.NoError(t, err)

	_, err = svc.UpdatePreferences(sub.ID, &UpdatePreferencesRequest{
		Preferences: map[string]interface{}{"weekly": false, "deals": true},
	})
	require.NoError(t, err)

	var stored models.Subscription
	require.NoError(t, db.First(&stored, sub.ID).Error)
	assert.Equal(t, false, stored.Preferences["weekly"])
	assert.Equal(t, true, stored.Preferences["deals"])
}
