package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/types"
)

// AIRecipeService stores generated recipes shared across the users who
// saved them
type AIRecipeService struct {
	db *gorm.DB
}

// NewAIRecipeService creates a new AIRecipeService instance
func NewAIRecipeService(db *gorm.DB) *AIRecipeService {
	return &AIRecipeService{db: db}
}

// SaveForUser saves a generated recipe under the given user. Recipes are
// keyed by title: the first save creates the row, later saves only add the
// user to the owner set. Content from later saves is discarded, so the first
// saver's version wins. Saving twice is a no-op.
func (s *AIRecipeService) SaveForUser(ctx context.Context, userID uuid.UUID, payload *types.SavedRecipePayload) (*models.AIRecipe, error) {
	id := userID.String()

	var recipe models.AIRecipe
	err := s.db.WithContext(ctx).Where("name = ?", payload.Title).First(&recipe).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		recipe = models.AIRecipe{
			Name:         payload.Title,
			Diet:         payload.Diet,
			ImageURL:     payload.ImageURL,
			Ingredients:  models.JSONBIngredientArray(payload.Ingredients),
			Instructions: models.JSONBStringArray(payload.Instructions),
			PrepTime:     payload.PrepTime,
			CookTime:     payload.CookTime,
			TotalTime:    payload.TotalTime,
			Owners:       models.JSONBStringArray{id},
		}
		if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
			return nil, err
		}
		return &recipe, nil
	}

	if recipe.HasOwner(id) {
		return &recipe, nil
	}

	recipe.Owners = append(recipe.Owners, id)
	if err := s.db.WithContext(ctx).Model(&recipe).Update("owners", recipe.Owners).Error; err != nil {
		return nil, err
	}

	return &recipe, nil
}

// ListByOwner returns the generated recipes the user has saved
func (s *AIRecipeService) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.AIRecipe, error) {
	var recipes []models.AIRecipe

	query := s.db.WithContext(ctx)
	if s.db.Dialector.Name() == "postgres" {
		query = query.Where("owners @> ?", fmt.Sprintf(`["%s"]`, userID.String()))
	} else {
		query = query.Where("owners LIKE ?", fmt.Sprintf(`%%"%s"%%`, userID.String()))
	}

	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}

	return recipes, nil
}

// DeleteOwned removes a saved recipe, but only when the user is in its
// owner set. Deletion removes the row for every owner.
func (s *AIRecipeService) DeleteOwned(ctx context.Context, userID uuid.UUID, recipeID uuid.UUID) error {
	var recipe models.AIRecipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return err
	}

	if !recipe.HasOwner(userID.String()) {
		return gorm.ErrRecordNotFound
	}

	return s.db.WithContext(ctx).Delete(&recipe).Error
}
