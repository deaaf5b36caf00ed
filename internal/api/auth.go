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

const oauthStateCookie = "oauth_state"

// AuthHandler serves sign-up, sign-in, the Google OAuth flow and the
// account routes
type AuthHandler struct {
	authService  service.IAuthService
	sessionStore service.SessionStore
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.IAuthService, sessionStore service.SessionStore) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessionStore: sessionStore,
	}
}

// RegisterRoutes wires the auth routes onto the router group
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/sign-in", h.SignIn)
		auth.POST("/logout", h.Logout)
		auth.GET("/google", h.GoogleRedirect)
		auth.GET("/google/callback", h.GoogleCallback)

		user := auth.Group("/user")
		user.Use(middleware.AuthMiddleware(h.authService))
		{
			user.GET("", h.GetUser)
			user.PUT("", h.UpdateUser)
			user.DELETE("", h.DeleteUser)
		}
	}
}

// SignUp creates a local account
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req types.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
		log.Printf("[AuthHandler] Sign-up failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    user,
	})
}

// SignIn verifies local credentials, opens a session and issues a token.
// Every credential failure is reported as the same 401.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req types.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	h.establishSession(c, user.ID)

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sign in", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"data":    gin.H{"user": user, "token": token},
	})
}

// Logout destroys the caller's session
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
		if err := h.sessionStore.Destroy(c.Request.Context(), sessionID); err != nil {
			log.Printf("[AuthHandler] Failed to destroy session: %v", err)
		}
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GoogleRedirect sends the browser to the Google consent page
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	state := uuid.New().String()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.authService.GoogleAuthURL(state))
}

// GoogleCallback completes the OAuth flow, opening a session and issuing a
// token for the resolved user
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing authorization code"})
		return
	}

	user, err := h.authService.LoginWithGoogle(c.Request.Context(), code)
	if err != nil {
		log.Printf("[AuthHandler] Google login failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Google authentication failed"})
		return
	}

	h.establishSession(c, user.ID)

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sign in", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"data":    gin.H{"user": user, "token": token},
	})
}

// GetUser returns the authenticated user's account
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User fetched successfully",
		"data":    user,
	})
}

// UpdateUser applies profile edits to the authenticated user
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[AuthHandler] Failed to update user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"data":    user,
	})
}

// DeleteUser removes the authenticated user's account
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	user, err := h.authService.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[AuthHandler] Failed to delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"data":    user,
	})
}

// establishSession opens a server-side session and sets its cookie. A
// session failure downgrades the login to token-only.
func (h *AuthHandler) establishSession(c *gin.Context, userID uuid.UUID) {
	sessionID, err := h.sessionStore.Create(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[AuthHandler] Failed to create session: %v", err)
		return
	}
	c.SetCookie(middleware.SessionCookieName, sessionID, 86400, "/", "", false, true)
}
