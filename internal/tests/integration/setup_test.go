package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/bloodbridge-backend/internal/config"
	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/migrations"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/pushp314/bloodbridge-backend/internal/routes"
	"github.com/pushp314/bloodbridge-backend/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testDBName = "bloodbridge_test"

// setupTestDB recreates a scratch database on the server named by
// TEST_DATABASE_URL and points the global handle at it. The suite is skipped
// when the variable is unset.
func setupTestDB(t *testing.T) *gorm.DB {
	baseDSN := os.Getenv("TEST_DATABASE_URL")
	if baseDSN == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
	}

	db, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "connect to postgres")

	// Existing connections block DROP DATABASE
	db.Exec(fmt.Sprintf("SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = '%s'", testDBName))
	require.NoError(t, db.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName)).Error)
	require.NoError(t, db.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName)).Error)

	testDB, err := gorm.Open(postgres.Open(withDatabase(baseDSN, testDBName)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	require.NoError(t, err, "connect to test DB")

	require.NoError(t, testDB.AutoMigrate(models.All()...))
	_, err = migrations.NewMigrator(testDB).Run()
	require.NoError(t, err)

	database.DB = testDB
	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

// withDatabase swaps the path of a postgres:// URL for the given name.
func withDatabase(dsn, name string) string {
	q := ""
	if i := strings.Index(dsn, "?"); i >= 0 {
		dsn, q = dsn[:i], dsn[i:]
	}
	if i := strings.LastIndex(dsn, "/"); i > len("postgres://") {
		dsn = dsn[:i]
	}
	return dsn + "/" + name + q
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return routes.NewRouter(nil)
}

func performRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
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

// createAdmin inserts an admin directly since registration never grants it.
func createAdmin(t *testing.T, db *gorm.DB) string {
	admin := models.User{
		Username:   "ops_admin",
		Email:      "ops@bloodbridge.local",
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	token, err := utils.GenerateToken(admin.ID, string(admin.Role))
	require.NoError(t, err)
	return token
}
