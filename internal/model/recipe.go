package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/recipeverse/backend/internal/discovery"
)

// EmbeddingDimensions is the width of Recipe.Embedding.
const EmbeddingDimensions = 32

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = JSONBStringArray{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBStringArray", value)
	}
	return json.Unmarshal(raw, a)
}

type Recipe struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
	Title             string           `gorm:"size:255;not null" json:"title"`
	Description       string           `gorm:"size:255" json:"description"`
	Ingredients       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps             JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Veg               bool             `gorm:"not null;default:false;index" json:"veg"`
	Stars             float64          `gorm:"not null;default:0" json:"stars"`
	ImageURL          string           `gorm:"size:512" json:"image_url,omitempty"`
	AuthorID          string           `gorm:"size:128;not null;index" json:"author_id"`
	AuthorDisplayName string           `gorm:"size:255" json:"author_display_name,omitempty"`
	AuthorPhotoURL    string           `gorm:"size:512" json:"author_photo_url,omitempty"`
	Embedding         pgvector.Vector  `gorm:"type:vector(32)" json:"-"`
	Ratings           []RecipeRating   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns an ID so every dialect gets the same behaviour.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RatingsByUser returns the recipe's ratings keyed by user.
func (r *Recipe) RatingsByUser() map[string]float64 {
	if len(r.Ratings) == 0 {
		return nil
	}
	m := make(map[string]float64, len(r.Ratings))
	for _, rating := range r.Ratings {
		m[rating.UserID] = rating.Value
	}
	return m
}

// ToDiscovery converts the stored recipe to the engine's read-only view.
func (r *Recipe) ToDiscovery() discovery.Recipe {
	return discovery.Recipe{
		ID:          r.ID.String(),
		Title:       r.Title,
		Description: r.Description,
		Ingredients: []string(r.Ingredients),
		Steps:       []string(r.Steps),
		Veg:         r.Veg,
		Stars:       r.Stars,
		ImageURL:    r.ImageURL,
		AuthorID:    r.AuthorID,
		Ratings:     r.RatingsByUser(),
	}
}
