package testhelpers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mealmuse/backend/internal/models"
)

// ErrNoSession is returned when a session id is unknown to the fake store
var ErrNoSession = errors.New("session not found")

// SetupTestDB creates an isolated in-memory database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.AIRecipe{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// MemorySessionStore is an in-memory SessionStore for tests
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]uuid.UUID)}
}

func (s *MemorySessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionID := uuid.New().String()
	s.sessions[sessionID] = userID
	return sessionID, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, ErrNoSession
	}
	return userID, nil
}

func (s *MemorySessionStore) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
