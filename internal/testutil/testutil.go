package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database"
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/tracker"
	"github.com/hugh/go-tracker/pkg/util"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestPassword = "pw"

// SetupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection so every query sees the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// TestLogger discards output.
func TestLogger() *slog.Logger {
	return util.NewLoggerTo(io.Discard, "test")
}

// CreateTestUser creates a user whose password is TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        name + "-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project through the tracker so it gets its
// owner membership and default workflow.
func CreateTestProject(t *testing.T, svc *tracker.Service, owner *models.User, title string) *models.Project {
	t.Helper()

	project, err := svc.Projects.CreateProject(context.Background(), owner.ID, tracker.CreateProjectInput{Title: title})
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// AddTestMember adds user to the project as a plain member.
func AddTestMember(t *testing.T, svc *tracker.Service, project *models.Project, inviter, user *models.User) {
	t.Helper()

	if err := svc.Tasks.InviteMember(context.Background(), project.ID, inviter.ID, user.ID); err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
}

// CreateTestJWTServices returns access and refresh token services.
func CreateTestJWTServices() (access, refresh *auth.JWTService) {
	return auth.NewJWTService("test-access-secret", 15*time.Minute),
		auth.NewJWTService("test-refresh-secret", 7*24*time.Hour)
}

// GenerateTestToken generates a valid access token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	Tracker    *tracker.Service
	AccessJWT  *auth.JWTService
	RefreshJWT *auth.JWTService
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, tracker, user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	access, refresh := CreateTestJWTServices()
	user := CreateTestUser(t, db, "alice")

	return &TestSetup{
		DB:         db,
		Tracker:    tracker.NewService(db, TestLogger()),
		AccessJWT:  access,
		RefreshJWT: refresh,
		User:       user,
		Token:      GenerateTestToken(t, access, user),
	}
}
