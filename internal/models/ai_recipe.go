package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIRecipe is a generated recipe saved by one or more users. Rows are keyed
// by title: the first save creates the row, later saves by other users only
// append to Owners. Owners is append-only and deduplicated. Deletes are
// permanent so a deleted title can be saved again.
type AIRecipe struct {
	ID           uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Name         string               `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Ingredients  JSONBIngredientArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray     `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	ImageURL     string               `gorm:"size:512" json:"image,omitempty"`
	PrepTime     int                  `json:"prepTime"`
	CookTime     int                  `json:"cookTime"`
	TotalTime    int                  `json:"totalTime"`
	Diet         string               `gorm:"size:50" json:"diet,omitempty"`
	Owners       JSONBStringArray     `gorm:"type:jsonb;not null;default:'[]'" json:"userId"`
}

func (r *AIRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasOwner reports whether the given user id is in the owner set
func (r *AIRecipe) HasOwner(userID string) bool {
	for _, id := range r.Owners {
		if id == userID {
			return true
		}
	}
	return false
}
