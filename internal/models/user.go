package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User deletes are permanent, freeing the email for a later sign-up.
type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar,omitempty"`
	GoogleID     string    `gorm:"index" json:"-"`
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
	Provider     string    `gorm:"not null" json:"provider"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
