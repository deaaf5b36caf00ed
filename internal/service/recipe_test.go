package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/testhelpers"
	"github.com/mealmuse/backend/internal/types"
)

func createRecipeRequest(userID string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name:         "Tomato Soup",
		Ingredients:  []string{"tomatoes", "basil"},
		Instructions: []string{"Simmer the tomatoes.", "Blend."},
		Image:        "https://images.example/soup.jpg",
		UserID:       userID,
	}
}

func TestCreateAndGetRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	userID := uuid.New().String()

	created, err := svc.Create(ctx, createRecipeRequest(userID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", fetched.Name)
	assert.Equal(t, models.JSONBStringArray{"tomatoes", "basil"}, fetched.Ingredients)
	assert.Equal(t, userID, fetched.UserID)
}

func TestListByUserScopesResults(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	first := uuid.New().String()
	second := uuid.New().String()

	_, err := svc.Create(ctx, createRecipeRequest(first))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRecipeRequest(second))
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListByUser(ctx, first)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first, mine[0].UserID)
}

func TestUpdateRecipePartial(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRecipeRequest(uuid.New().String()))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &types.UpdateRecipeRequest{
		Name: "Roasted Tomato Soup",
	})
	require.NoError(t, err)
	assert.Equal(t, "Roasted Tomato Soup", updated.Name)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"tomatoes", "basil"}, fetched.Ingredients)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)

	_, err := svc.Update(context.Background(), uuid.New(), &types.UpdateRecipeRequest{Name: "Nope"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSetImage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRecipeRequest(uuid.New().String()))
	require.NoError(t, err)

	updated, err := svc.SetImage(ctx, created.ID, "https://bucket.s3.amazonaws.com/recipe-media/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipe-media/abc", updated.ImageURL)
}

func TestDeleteRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, createRecipeRequest(uuid.New().String()))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = svc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
