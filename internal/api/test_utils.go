package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/config"
	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/service"
	"github.com/mealmuse/backend/internal/testhelpers"
)

// fakeGenerator is a canned ILLMService for handler tests
type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) BuildRecipePrompt(req service.GenerateRequest) string {
	return "prompt for " + req.Category
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

// fakeImages is a canned IImageService for handler tests
type fakeImages struct {
	imageURL  string
	searchErr error
	uploadURL string
	uploadErr error
}

func (f *fakeImages) SearchImage(ctx context.Context, query string) (string, error) {
	return f.imageURL, f.searchErr
}

func (f *fakeImages) UploadMedia(ctx context.Context, data []byte, contentType string) (string, error) {
	return f.uploadURL, f.uploadErr
}

// testEnv bundles the router and its backing services for handler tests
type testEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	auth      *service.AuthService
	generator *fakeGenerator
	images    *fakeImages
	sessions  *testhelpers.MemorySessionStore
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpiry: time.Hour}

	auth := service.NewAuthService(db, cfg)
	sessions := testhelpers.NewMemorySessionStore()
	generator := &fakeGenerator{}
	images := &fakeImages{}

	authHandler := NewAuthHandler(auth, sessions)
	recipeHandler := NewRecipeHandler(service.NewRecipeService(db), images, sessions)
	aiHandler := NewAIHandler(generator, images, service.NewAIRecipeService(db), auth, sessions)

	router := gin.New()
	root := router.Group("")
	authHandler.RegisterRoutes(root)
	recipeHandler.RegisterRoutes(root)
	aiHandler.RegisterRoutes(root)

	return &testEnv{
		router:    router,
		db:        db,
		auth:      auth,
		generator: generator,
		images:    images,
		sessions:  sessions,
	}
}

// createUserAndToken registers a user and returns it with a valid token
func (e *testEnv) createUserAndToken(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	user, err := e.auth.Register(context.Background(), "Test User", email, "password123")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := e.auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user, token
}

// sessionCookie opens a session for the user and returns its cookie
func (e *testEnv) sessionCookie(t *testing.T, userID uuid.UUID) *http.Cookie {
	t.Helper()

	sessionID, err := e.sessions.Create(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return &http.Cookie{Name: "session_id", Value: sessionID}
}

// performRequest issues a JSON request against the test router
func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	return performRequestWithCookie(router, method, path, body, token, nil)
}

// performRequestWithCookie issues a JSON request carrying a session cookie
func performRequestWithCookie(router *gin.Engine, method, path string, body interface{}, token string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}
