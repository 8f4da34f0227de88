package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pushp314/bloodbridge-backend/internal/config"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB swaps in a fresh in-memory SQLite database and a test config.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	database.DB = db
	config.AppConfig = &config.Config{JWTSecret: "test_secret_key_12345"}
}

func createUser(t *testing.T, role models.Role, verified bool, mutate ...func(*models.User)) models.User {
	t.Helper()
	short := uuid.New().String()[:8]
	u := models.User{
		Username:   string(role) + "_" + short,
		Email:      short + "@example.com",
		Role:       role,
		IsVerified: verified,
	}
	for _, m := range mutate {
		m(&u)
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func withBadges(count int, held ...string) func(*models.User) {
	return func(u *models.User) {
		u.DonationCount = count
		u.Badges = pq.StringArray(held)
	}
}

// serve registers h on a fresh engine behind a stub that plays the part of
// AuthMiddleware for the given user (nil for anonymous).
func serve(method, route, path string, h gin.HandlerFunc, as *models.User, body interface{}) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if as != nil {
			c.Set("userId", as.ID)
			c.Set("role", string(as.Role))
			c.Set("isVerified", as.IsVerified)
		}
		c.Next()
	})
	r.Handle(method, route, h)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
