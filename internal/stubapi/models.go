package stubapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// userModel is the stored account.
type userModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex"`
	Phone        string
	Bio          string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// refreshTokenModel is one rotating refresh token. A token is single-use:
// rotation revokes it and issues a replacement.
type refreshTokenModel struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	ExpiresAt time.Time
	Revoked   bool
}

// imageModel is one image attached to an artwork, embedded as JSON.
type imageModel struct {
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// printModel is one purchasable print size, embedded as JSON.
type printModel struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// artworkModel stores the full record. Images, tags, and print options live
// in serialized columns; SQLite has no need for join tables here.
type artworkModel struct {
	ID              string `gorm:"primaryKey"`
	Title           string
	Description     string
	Category        string `gorm:"index"`
	Medium          string
	Dimensions      string
	Year            int
	Price           *decimal.Decimal `gorm:"type:text"`
	Tags            []string         `gorm:"serializer:json"`
	Images          []imageModel     `gorm:"serializer:json"`
	Featured        bool             `gorm:"index"`
	Sold            bool
	PrintsAvailable bool
	PrintOptions    []printModel `gorm:"serializer:json"`
	Slug            string       `gorm:"index"`
	ViewCount       int
	IsActive        bool `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PrimaryOf returns the image flagged primary, or nil.
func (m artworkModel) PrimaryOf() *imageModel {
	for i := range m.Images {
		if m.Images[i].IsPrimary {
			return &m.Images[i]
		}
	}
	return nil
}

type contactModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Email       string
	Subject     string
	Message     string
	InquiryType string
	Status      string `gorm:"index"`
	Response    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type inquiryModel struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	Email           string
	Message         string
	ArtworkID       string `gorm:"index"`
	ArtworkTitle    string
	Status          string `gorm:"index"`
	Priority        string `gorm:"index"`
	Archived        bool   `gorm:"index"`
	Tags            []string `gorm:"serializer:json"`
	AdminNote       string
	FollowUpDate    *time.Time
	LastContactedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// uploadModel tracks an uploaded image independent of any artwork.
type uploadModel struct {
	PublicID         string `gorm:"primaryKey"`
	OriginalFilename string
	Format           string
	Bytes            int64
	CreatedAt        time.Time
}

func (userModel) TableName() string         { return "users" }
func (refreshTokenModel) TableName() string { return "refresh_tokens" }
func (artworkModel) TableName() string      { return "artworks" }
func (contactModel) TableName() string      { return "contacts" }
func (inquiryModel) TableName() string      { return "inquiries" }
func (uploadModel) TableName() string       { return "uploads" }
