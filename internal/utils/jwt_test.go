// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "Alice", "customer", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "customer", claims.Role)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "Alice", "customer", 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	got, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), got)

	// An access token is not accepted where a refresh token is expected.
	access, err := GenerateJWT(userID, "Alice", "customer", 1)
	require.NoError(t, err)
	_, err = ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidatorCustomTags(t *testing.T) {
	type pw struct {
		Password string `validate:"strong_password"`
	}
	assert.NoError(t, ValidateStruct(&pw{Password: "Password1"}))
	assert.Error(t, ValidateStruct(&pw{Password: "short1A"}))
	assert.Error(t, ValidateStruct(&pw{Password: "alllowercase1"}))
	assert.Error(t, ValidateStruct(&pw{Password: "NoNumbersHere"}))

	type rv struct {
		Rating int `validate:"rating"`
	}
	assert.NoError(t, ValidateStruct(&rv{Rating: 3}))
	assert.Error(t, ValidateStruct(&rv{Rating: 0}))
	assert.Error(t, ValidateStruct(&rv{Rating: 6}))
}
