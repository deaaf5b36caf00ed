package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/types"
)

// ILLMService defines the interface for recipe generation
type ILLMService interface {
	BuildRecipePrompt(req GenerateRequest) string
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// IImageService defines the interface for image search and media storage
type IImageService interface {
	SearchImage(ctx context.Context, query string) (string, error)
	UploadMedia(ctx context.Context, data []byte, contentType string) (string, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GoogleAuthURL(state string) string
	LoginWithGoogle(ctx context.Context, code string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *types.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// IRecipeService defines the interface for user-authored recipe operations
type IRecipeService interface {
	ListAll(ctx context.Context) ([]models.Recipe, error)
	ListByUser(ctx context.Context, userID string) ([]models.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	Create(ctx context.Context, req *types.CreateRecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	SetImage(ctx context.Context, id uuid.UUID, imageURL string) (*models.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IAIRecipeService defines the interface for saved generated-recipe operations
type IAIRecipeService interface {
	SaveForUser(ctx context.Context, userID uuid.UUID, payload *types.SavedRecipePayload) (*models.AIRecipe, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.AIRecipe, error)
	DeleteOwned(ctx context.Context, userID uuid.UUID, recipeID uuid.UUID) error
}
