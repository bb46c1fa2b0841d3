// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shoplane/shoplane-backend/internal/config"
	"github.com/shoplane/shoplane-backend/internal/middleware"
	"github.com/shoplane/shoplane-backend/internal/models"
	"github.com/shoplane/shoplane-backend/internal/services"
	"github.com/shoplane/shoplane-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")
}

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}

	authHandler := NewAuthHandler(services.NewAuthService(db, cfg))

	r := gin.New()
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterConflictStatus(t *testing.T) {
	r := setupAuthRouter(t)

	payload := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Password1",
	}

	w := doJSON(t, r, "POST", "/auth/register", payload, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/auth/register", payload, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

func TestLoginStatusCodes(t *testing.T) {
	r := setupAuthRouter(t)

	register := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Password1",
	}
	w := doJSON(t, r, "POST", "/auth/register", register, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown email is a 404, wrong password a 400.
	w = doJSON(t, r, "POST", "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Password1",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, "POST", "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "WrongPass1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "Password1",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r := setupAuthRouter(t)

	w := doJSON(t, r, "GET", "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	register := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Password1",
	}
	w = doJSON(t, r, "POST", "/auth/register", register, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	w = doJSON(t, r, "GET", "/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + resp.Data.Token,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := setupAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "not-an-email",
		"password": "weak",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
