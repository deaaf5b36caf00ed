package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/middleware"
	"github.com/mealmuse/backend/internal/service"
	"github.com/mealmuse/backend/internal/types"
)

// AIHandler serves recipe generation and the per-user store of saved
// generated recipes
type AIHandler struct {
	llmService      service.ILLMService
	imageService    service.IImageService
	aiRecipeService service.IAIRecipeService
	validator       middleware.TokenValidator
	sessions        service.SessionStore
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(
	llmService service.ILLMService,
	imageService service.IImageService,
	aiRecipeService service.IAIRecipeService,
	validator middleware.TokenValidator,
	sessions service.SessionStore,
) *AIHandler {
	return &AIHandler{
		llmService:      llmService,
		imageService:    imageService,
		aiRecipeService: aiRecipeService,
		validator:       validator,
		sessions:        sessions,
	}
}

// RegisterRoutes wires the AI routes onto the router group. Generation is
// open; the saved-recipe store requires a bearer token, and listing also
// requires a live session.
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	{
		ai.POST("/generate-recipes", h.GenerateRecipes)
		ai.POST("/save-recipe", middleware.AuthMiddleware(h.validator), h.SaveRecipe)
		ai.GET("/ai-recipes",
			middleware.SessionRequired(h.sessions),
			middleware.AuthMiddleware(h.validator),
			h.ListSavedRecipes)
		ai.DELETE("/ai-recipes/:id", middleware.AuthMiddleware(h.validator), h.DeleteSavedRecipe)
	}
}

// GenerateRecipes runs the full generation pipeline: prompt, model call,
// parse, image enrichment
func (h *AIHandler) GenerateRecipes(c *gin.Context) {
	var req types.GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	prompt := h.llmService.BuildRecipePrompt(service.GenerateRequest{
		Category:    req.Category,
		DietType:    req.DietType,
		Ingredients: req.Ingredients,
		PrepTime:    req.PrepTime,
	})

	raw, err := h.llmService.GenerateContent(c.Request.Context(), prompt)
	if err != nil {
		log.Printf("[AIHandler] Generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate recipes", "error": err.Error()})
		return
	}

	recipes, err := service.ParseRecipes(raw)
	if err != nil {
		var malformed *service.MalformedOutputError
		if errors.As(err, &malformed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Invalid JSON received from AI",
				"raw":     malformed.Raw,
				"error":   malformed.Err.Error(),
			})
			return
		}

		var missing *service.MissingRecipesError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "AI did not return a valid recipes array",
				"raw":     missing.Raw,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate recipes", "error": err.Error()})
		return
	}

	service.EnrichRecipes(c.Request.Context(), h.imageService, recipes)

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes generated successfully",
		"recipes": recipes,
	})
}

// SaveRecipe stores a generated recipe for the authenticated user
func (h *AIHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req types.SaveAIRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	recipe, err := h.aiRecipeService.SaveForUser(c.Request.Context(), userID, req.Recipe)
	if err != nil {
		log.Printf("[AIHandler] Failed to save recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe saved successfully",
		"data":    recipe,
	})
}

// ListSavedRecipes returns the generated recipes the user has saved
func (h *AIHandler) ListSavedRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	recipes, err := h.aiRecipeService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[AIHandler] Failed to list recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recipes", "error": err.Error()})
		return
	}

	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "No AI generated recipes found",
			"data":    []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "AI generated recipes fetched successfully",
		"data":    recipes,
	})
}

// DeleteSavedRecipe removes a saved recipe the user owns
func (h *AIHandler) DeleteSavedRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	if err := h.aiRecipeService.DeleteOwned(c.Request.Context(), userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		log.Printf("[AIHandler] Failed to delete recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// currentUserID reads the authenticated user id set by the auth middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
