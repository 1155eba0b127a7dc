package artwork

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
)

// Category is the fixed gallery taxonomy.
type Category string

const (
	CategoryPortraits  Category = "portraits"
	CategoryLandscapes Category = "landscapes"
	CategoryStillLife  Category = "still-life"
	CategorySketches   Category = "sketches"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{CategoryPortraits, CategoryLandscapes, CategoryStillLife, CategorySketches}
}

// ImageRef is one image attached to an artwork.
type ImageRef struct {
	URL       string `json:"url"`
	PublicID  string `json:"publicId"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary"`
}

// PrintOption is one purchasable print size.
type PrintOption struct {
	Size  string          `json:"size" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// Artwork is the full record exchanged with the API.
type Artwork struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Category        Category         `json:"category"`
	Medium          string           `json:"medium,omitempty"`
	Dimensions      string           `json:"dimensions,omitempty"`
	Year            int              `json:"year,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Images          []ImageRef       `json:"images"`
	Featured        bool             `json:"featured"`
	Sold            bool             `json:"sold"`
	PrintsAvailable bool             `json:"printsAvailable"`
	PrintOptions    []PrintOption    `json:"printOptions,omitempty"`
	Slug            string           `json:"slug,omitempty"`
	ViewCount       int              `json:"viewCount"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// PrimaryImage resolves the image flagged primary, falling back to the
// first image when none is flagged.
func (a Artwork) PrimaryImage() *ImageRef {
	for i := range a.Images {
		if a.Images[i].IsPrimary {
			return &a.Images[i]
		}
	}
	if len(a.Images) > 0 {
		return &a.Images[0]
	}
	return nil
}

// ListFilter narrows a listing. Zero values are omitted from the request.
type ListFilter struct {
	Page     int
	Limit    int
	Category Category
	Featured *bool
	Sold     *bool
}

func (f ListFilter) values() url.Values {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Category != "" {
		query.Set("category", string(f.Category))
	}
	if f.Featured != nil {
		query.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.Sold != nil {
		query.Set("sold", strconv.FormatBool(*f.Sold))
	}
	return query
}

// cacheParams mirrors values() so equal filters land on equal cache keys.
func (f ListFilter) cacheParams() map[string]string {
	params := map[string]string{}
	for name, vals := range f.values() {
		params[name] = vals[0]
	}
	return params
}

// ListResult is a page of artworks.
type ListResult struct {
	Artworks []Artwork `json:"artworks"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// ImagesSummary is the derived per-artwork image view kept in cache. It is
// recomputed from the parent record after every image mutation instead of
// re-reading the images endpoint.
type ImagesSummary struct {
	Images  []ImageRef `json:"images"`
	Primary *ImageRef  `json:"primary,omitempty"`
	Count   int        `json:"count"`
}

// SummaryOf derives the images summary from a full record.
func SummaryOf(record Artwork) ImagesSummary {
	return ImagesSummary{
		Images:  record.Images,
		Primary: record.PrimaryImage(),
		Count:   len(record.Images),
	}
}

// CreateInput carries the multipart fields for a new artwork.
type CreateInput struct {
	Title           string           `json:"title" validate:"required,max=200"`
	Description     string           `json:"description" validate:"max=5000"`
	Category        Category         `json:"category" validate:"required,oneof=portraits landscapes still-life sketches"`
	Medium          string           `json:"medium" validate:"max=200"`
	Dimensions      string           `json:"dimensions" validate:"max=200"`
	Year            int              `json:"year" validate:"omitempty,gte=1000,lte=2200"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Featured        bool             `json:"featured"`
	Sold            bool             `json:"sold"`
	PrintsAvailable bool             `json:"printsAvailable"`
	PrintOptions    []PrintOption    `json:"printOptions,omitempty" validate:"dive"`
	Images          []upload.File    `json:"-"`
}

// UpdateInput carries a full-record update. Files, when present, replace the
// artwork's image set server-side.
type UpdateInput struct {
	Title           string           `json:"title" validate:"required,max=200"`
	Description     string           `json:"description" validate:"max=5000"`
	Category        Category         `json:"category" validate:"required,oneof=portraits landscapes still-life sketches"`
	Medium          string           `json:"medium" validate:"max=200"`
	Dimensions      string           `json:"dimensions" validate:"max=200"`
	Year            int              `json:"year" validate:"omitempty,gte=1000,lte=2200"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Featured        bool             `json:"featured"`
	Sold            bool             `json:"sold"`
	PrintsAvailable bool             `json:"printsAvailable"`
	PrintOptions    []PrintOption    `json:"printOptions,omitempty" validate:"dive"`
	Images          []upload.File    `json:"-"`
}

type detailEnvelope struct {
	Artwork Artwork `json:"artwork"`
}

type imagesEnvelope struct {
	Images []ImageRef `json:"images"`
}
