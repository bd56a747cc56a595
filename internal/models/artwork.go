package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Artwork availability
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// ValidArtworkStatus reports whether s is one of the known availability values
func ValidArtworkStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Artwork is a catalog entry. JSON names match the storefront.
type Artwork struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Title      string    `gorm:"not null;index" json:"title"`
	PriceCents int64     `gorm:"not null;index" json:"priceCents"`
	Category   string    `gorm:"index" json:"category"`
	ImageURL   *string   `json:"imageUrl"`
	Year       *int      `gorm:"index" json:"year"`
	Medium     *string   `json:"medium"`
	Dimensions *string   `json:"dimensions"`
	Status     string    `gorm:"not null;default:'available';index" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (a *Artwork) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = StatusAvailable
	}
	return nil
}

// Category groups artworks; Key is what Artwork.Category refers to
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	LabelEN   *string   `json:"label_en"`
	LabelDE   *string   `json:"label_de"`
	CreatedAt time.Time `json:"-"`
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// StatusCheck is a client ping record
type StatusCheck struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ClientName string    `gorm:"not null" json:"client_name"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

func (s *StatusCheck) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	return nil
}
