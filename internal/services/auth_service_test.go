// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.UserRoleCustomer, resp.User.Role)
	assert.NotEqual(t, "Password1", resp.User.PasswordHash, "password must never be stored in clear")

	login, err := svc.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// Same email, different name and password: still rejected, nothing written.
	_, err = svc.Register(&RegisterRequest{
		Name:     "Mallory",
		Email:    "alice@example.com",
		Password: "Different1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Login(&LoginRequest{
		Email:    "nobody@example.com",
		Password: "Password1",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	createTestUser(t, db, "alice@example.com")

	_, err := svc.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass1",
	})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user := createTestUser(t, db, "alice@example.com")

	require.NoError(t, svc.DeleteAccount(user.ID))
	assert.ErrorIs(t, svc.DeleteAccount(user.ID), ErrUserNotFound)

	_, err := svc.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
