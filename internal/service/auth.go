package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/config"
	"github.com/mealmuse/backend/internal/models"
	"github.com/mealmuse/backend/internal/types"
)

var ErrEmailTaken = errors.New("user already exists")

// AuthService owns user accounts and every credential path into the system
type AuthService struct {
	db          *gorm.DB
	jwtSecret   string
	tokenExpiry time.Duration
	oauthConfig *oauth2.Config

	password CredentialVerifier
	profile  CredentialVerifier
	bearer   CredentialVerifier
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		jwtSecret:   cfg.JWTSecret,
		tokenExpiry: cfg.TokenExpiry,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		password: &passwordVerifier{db: db},
		profile:  &googleProfileVerifier{db: db},
		bearer:   &bearerTokenVerifier{db: db, jwtSecret: cfg.JWTSecret},
	}
}

// Register creates a local account. The password is hashed before it is
// stored; a duplicate email returns ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Provider:     "local",
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies local credentials and returns the user
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	identity, err := s.password.Verify(ctx, PasswordCredential{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, identity.UserID)
}

// GoogleAuthURL returns the consent page URL to redirect the browser to
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// googleUserInfo is the OpenID userinfo payload
type googleUserInfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}

// LoginWithGoogle exchanges the callback code for a profile and resolves it
// to a user, creating the account on first login
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*models.User, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://openidconnect.googleapis.com/v1/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	identity, err := s.profile.Verify(ctx, GoogleProfileCredential{
		Subject:       info.Sub,
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		EmailVerified: info.EmailVerified,
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, identity.UserID)
}

// GenerateToken issues a signed bearer token for the user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken checks a bearer token and returns its claims
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	identity, err := s.bearer.Verify(ctx, BearerTokenCredential{Token: tokenString})
	if err != nil {
		return nil, err
	}

	return &types.TokenClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
	}, nil
}

// GetUser fetches a user by id
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies profile edits and returns the updated user
func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, req *types.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// DeleteUser removes the user. Recipes owned by the user are left in place;
// cascade behavior is intentionally unspecified.
func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
