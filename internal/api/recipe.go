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

// maxMediaBytes caps recipe media uploads at 10 MiB
const maxMediaBytes = 10 << 20

// RecipeHandler serves the user-authored recipe routes
type RecipeHandler struct {
	recipeService service.IRecipeService
	imageService  service.IImageService
	sessions      service.SessionStore
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(
	recipeService service.IRecipeService,
	imageService service.IImageService,
	sessions service.SessionStore,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		sessions:      sessions,
	}
}

// RegisterRoutes wires the recipe routes onto the router group. Reads and
// deletes are open; writes require a live session.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:userId", h.ListUserRecipes)
		recipes.POST("", middleware.SessionRequired(h.sessions), h.CreateRecipe)
		recipes.PUT("/:id", middleware.SessionRequired(h.sessions), h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/image", middleware.SessionRequired(h.sessions), h.UploadRecipeImage)
	}
}

// ListRecipes returns every recipe, 404 when there are none
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("[RecipeHandler] Failed to list recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recipes", "error": err.Error()})
		return
	}

	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No recipes found", "data": []interface{}{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes fetched successfully",
		"data":    recipes,
	})
}

// ListUserRecipes returns the recipes authored by one user
func (h *RecipeHandler) ListUserRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		log.Printf("[RecipeHandler] Failed to list recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch recipes", "error": err.Error()})
		return
	}

	if len(recipes) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No recipes found for this user", "data": []interface{}{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes fetched successfully",
		"data":    recipes,
	})
}

// CreateRecipe stores a new recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), &req)
	if err != nil {
		log.Printf("[RecipeHandler] Failed to create recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"data":    recipe,
	})
}

// UpdateRecipe applies a partial edit to a recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		log.Printf("[RecipeHandler] Failed to update recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"data":    recipe,
	})
}

// DeleteRecipe removes a recipe
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		log.Printf("[RecipeHandler] Failed to delete recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// UploadRecipeImage stores uploaded media and records its URL on the recipe
func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := service.ReadLimited(file, maxMediaBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image too large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	imageURL, err := h.imageService.UploadMedia(c.Request.Context(), data, contentType)
	if err != nil {
		log.Printf("[RecipeHandler] Failed to upload media: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image", "error": err.Error()})
		return
	}

	recipe, err := h.recipeService.SetImage(c.Request.Context(), id, imageURL)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		log.Printf("[RecipeHandler] Failed to update recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update recipe", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"data":    recipe,
	})
}
