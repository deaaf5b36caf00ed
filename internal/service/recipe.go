package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/types"
)

// RecipeService handles user-authored recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListAll returns every recipe, newest first
func (s *RecipeService) ListAll(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByUser returns the recipes authored by one user, newest first
func (s *RecipeService) ListByUser(ctx context.Context, userID string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get fetches a recipe by id
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create stores a new recipe
func (s *RecipeService) Create(ctx context.Context, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		Name:         req.Name,
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		Instructions: models.JSONBStringArray(req.Instructions),
		ImageURL:     req.Image,
		VideoURL:     req.VideoURI,
		UserID:       req.UserID,
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}

	return &recipe, nil
}

// Update applies a partial edit to a recipe. Ownership is not checked; any
// authenticated caller may edit any recipe.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Ingredients != nil {
		updates["ingredients"] = models.JSONBStringArray(req.Ingredients)
	}
	if req.Instructions != nil {
		updates["instructions"] = models.JSONBStringArray(req.Instructions)
	}
	if req.Image != "" {
		updates["image_url"] = req.Image
	}
	if req.VideoURI != "" {
		updates["video_url"] = req.VideoURI
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&recipe).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &recipe, nil
}

// SetImage records the media URL for a recipe
func (s *RecipeService) SetImage(ctx context.Context, id uuid.UUID, imageURL string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&recipe).Update("image_url", imageURL).Error; err != nil {
		return nil, err
	}

	return &recipe, nil
}

// Delete removes a recipe by id
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
