package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mealmuse/backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is the normalized result of a successful credential check
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Provider string
}

// Credential is one of the supported credential kinds
type Credential interface {
	credential()
}

// PasswordCredential is a local email/password pair
type PasswordCredential struct {
	Email    string
	Password string
}

func (PasswordCredential) credential() {}

// GoogleProfileCredential is a verified OAuth profile from Google
type GoogleProfileCredential struct {
	Subject       string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

func (GoogleProfileCredential) credential() {}

// BearerTokenCredential is a signed bearer token from the Authorization header
type BearerTokenCredential struct {
	Token string
}

func (BearerTokenCredential) credential() {}

// CredentialVerifier resolves a credential to an identity or a failure.
// Verification is synchronous and side-effect free except for the OAuth
// variant, which creates the user on first login.
type CredentialVerifier interface {
	Verify(ctx context.Context, cred Credential) (*Identity, error)
}

// passwordVerifier checks local email/password credentials against the store
type passwordVerifier struct {
	db *gorm.DB
}

func (v *passwordVerifier) Verify(ctx context.Context, cred Credential) (*Identity, error) {
	pw, ok := cred.(PasswordCredential)
	if !ok {
		return nil, fmt.Errorf("password verifier: unsupported credential %T", cred)
	}

	var user models.User
	if err := v.db.WithContext(ctx).Where("email = ?", pw.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(pw.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{UserID: user.ID, Email: user.Email, Provider: user.Provider}, nil
}

// googleProfileVerifier resolves an OAuth profile to a user, creating the
// user on first login
type googleProfileVerifier struct {
	db *gorm.DB
}

func (v *googleProfileVerifier) Verify(ctx context.Context, cred Credential) (*Identity, error) {
	profile, ok := cred.(GoogleProfileCredential)
	if !ok {
		return nil, fmt.Errorf("google verifier: unsupported credential %T", cred)
	}

	var user models.User
	err := v.db.WithContext(ctx).Where("google_id = ?", profile.Subject).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user = models.User{
			GoogleID:   profile.Subject,
			Name:       profile.Name,
			Email:      profile.Email,
			Avatar:     profile.Picture,
			IsVerified: profile.EmailVerified,
			Provider:   "google",
		}
		if err := v.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	}

	return &Identity{UserID: user.ID, Email: user.Email, Provider: user.Provider}, nil
}

// bearerTokenVerifier validates signed bearer tokens and resolves the subject
type bearerTokenVerifier struct {
	db        *gorm.DB
	jwtSecret string
}

func (v *bearerTokenVerifier) Verify(ctx context.Context, cred Credential) (*Identity, error) {
	bearer, ok := cred.(BearerTokenCredential)
	if !ok {
		return nil, fmt.Errorf("bearer verifier: unsupported credential %T", cred)
	}

	token, err := jwt.Parse(bearer.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(v.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := v.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: user.ID, Email: user.Email, Provider: user.Provider}, nil
}
