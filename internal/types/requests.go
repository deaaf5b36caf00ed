package types

import (
	"github.com/mealmuse/backend/internal/models"
)

// GenerateRecipesRequest is the body of POST /ai/generate-recipes
type GenerateRecipesRequest struct {
	Category    string   `json:"category" binding:"required"`
	DietType    string   `json:"dietType"`
	Ingredients []string `json:"ingredients"`
	PrepTime    int      `json:"prepTime"`
}

// SignUpRequest is the body of POST /auth/sign-up
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SignInRequest is the body of POST /auth/sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the body of PUT /auth/user
type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// CreateRecipeRequest is the body of POST /recipes
type CreateRecipeRequest struct {
	Name         string   `json:"name" binding:"required"`
	Ingredients  []string `json:"ingredients" binding:"required"`
	Instructions []string `json:"instructions" binding:"required"`
	Image        string   `json:"image"`
	VideoURI     string   `json:"videoUri"`
	UserID       string   `json:"userId" binding:"required"`
}

// UpdateRecipeRequest is the body of PUT /recipes/:id
type UpdateRecipeRequest struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Image        string   `json:"image"`
	VideoURI     string   `json:"videoUri"`
}

// SaveAIRecipeRequest is the body of POST /ai/save-recipe
type SaveAIRecipeRequest struct {
	Recipe *SavedRecipePayload `json:"recipe" binding:"required"`
}

// SavedRecipePayload carries a generated recipe back from the client for saving
type SavedRecipePayload struct {
	Title        string              `json:"title" binding:"required"`
	Diet         string              `json:"diet"`
	ImageURL     string              `json:"imageUrl"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	PrepTime     int                 `json:"prepTime"`
	CookTime     int                 `json:"cookTime"`
	TotalTime    int                 `json:"totalTime"`
}
