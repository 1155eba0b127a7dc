package stubapi

import (
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

type artworkPayload struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Category        string           `json:"category"`
	Medium          string           `json:"medium,omitempty"`
	Dimensions      string           `json:"dimensions,omitempty"`
	Year            int              `json:"year,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Images          []imageModel     `json:"images"`
	Featured        bool             `json:"featured"`
	Sold            bool             `json:"sold"`
	PrintsAvailable bool             `json:"printsAvailable"`
	PrintOptions    []printModel     `json:"printOptions,omitempty"`
	Slug            string           `json:"slug,omitempty"`
	ViewCount       int              `json:"viewCount"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func toArtworkPayload(m artworkModel) artworkPayload {
	images := m.Images
	if images == nil {
		images = []imageModel{}
	}
	return artworkPayload{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Medium:          m.Medium,
		Dimensions:      m.Dimensions,
		Year:            m.Year,
		Price:           m.Price,
		Tags:            m.Tags,
		Images:          images,
		Featured:        m.Featured,
		Sold:            m.Sold,
		PrintsAvailable: m.PrintsAvailable,
		PrintOptions:    m.PrintOptions,
		Slug:            m.Slug,
		ViewCount:       m.ViewCount,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

var validCategories = map[string]bool{
	"portraits":  true,
	"landscapes": true,
	"still-life": true,
	"sketches":   true,
}

func (s *Server) handleArtworkList(w http.ResponseWriter, r *http.Request) {
	query := s.db.Model(&artworkModel{}).Where("is_active = ?", true)
	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if featured := q.Get("featured"); featured != "" {
		query = query.Where("featured = ?", featured == "true")
	}
	if sold := q.Get("sold"); sold != "" {
		query = query.Where("sold = ?", sold == "true")
	}
	if search := q.Get("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(title) LIKE ? OR lower(description) LIKE ? OR lower(medium) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count artworks"))
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var records []artworkModel
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&records).Error
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list artworks"))
		return
	}
	artworks := make([]artworkPayload, 0, len(records))
	for _, record := range records {
		artworks = append(artworks, toArtworkPayload(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"artworks": artworks,
		"total":    total,
		"page":     page,
		"pages":    int(math.Ceil(float64(total) / float64(limit))),
	})
}

func (s *Server) loadArtwork(id string) (artworkModel, error) {
	var record artworkModel
	err := s.db.First(&record, "id = ? AND is_active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, pkgerrors.New(pkgerrors.CodeNotFound, "artwork not found")
	}
	if err != nil {
		return record, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artwork")
	}
	return record, nil
}

func (s *Server) handleArtworkGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record.ViewCount++
	s.db.Model(&artworkModel{}).Where("id = ?", record.ID).Update("view_count", record.ViewCount)
	writeJSON(w, http.StatusOK, map[string]any{"artwork": toArtworkPayload(record)})
}

func (s *Server) handleArtworkImages(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	images := record.Images
	if images == nil {
		images = []imageModel{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}

// artworkForm is the parsed multipart create/update payload.
type artworkForm struct {
	Title           string
	Description     string
	Category        string
	Medium          string
	Dimensions      string
	Year            int
	Price           *decimal.Decimal
	Tags            []string
	Featured        bool
	Sold            bool
	PrintsAvailable bool
	PrintOptions    []printModel
	Files           []*multipart.FileHeader
}

const maxUploadBytes = 32 << 20

func parseArtworkForm(r *http.Request) (artworkForm, error) {
	var form artworkForm
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return form, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	form.Title = strings.TrimSpace(r.FormValue("title"))
	form.Description = r.FormValue("description")
	form.Category = r.FormValue("category")
	form.Medium = r.FormValue("medium")
	form.Dimensions = r.FormValue("dimensions")
	form.Featured = r.FormValue("featured") == "true"
	form.Sold = r.FormValue("sold") == "true"
	form.PrintsAvailable = r.FormValue("printsAvailable") == "true"
	form.Tags = r.MultipartForm.Value["tags"]

	if form.Title == "" {
		return form, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !validCategories[form.Category] {
		return form, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if raw := r.FormValue("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return form, pkgerrors.New(pkgerrors.CodeValidation, "invalid year")
		}
		form.Year = year
	}
	if raw := r.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			return form, pkgerrors.New(pkgerrors.CodeValidation, "invalid price")
		}
		form.Price = &price
	}
	if raw := r.FormValue("printOptions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.PrintOptions); err != nil {
			return form, pkgerrors.New(pkgerrors.CodeValidation, "invalid print options")
		}
	}
	if r.MultipartForm != nil {
		form.Files = r.MultipartForm.File["images"]
	}
	return form, nil
}

// storeImages registers each uploaded file and synthesizes its hosted URL.
func (s *Server) storeImages(files []*multipart.FileHeader) ([]imageModel, error) {
	images := make([]imageModel, 0, len(files))
	for _, header := range files {
		record, err := s.registerUpload(header.Filename, header.Size)
		if err != nil {
			return nil, err
		}
		images = append(images, imageModel{
			URL:      s.assetURL("", record.PublicID, record.Format),
			PublicID: record.PublicID,
			Alt:      strings.TrimSuffix(header.Filename, path.Ext(header.Filename)),
		})
	}
	return images, nil
}

func markPrimary(images []imageModel) []imageModel {
	for i := range images {
		images[i].IsPrimary = i == 0
	}
	return images
}

func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "artwork"
	}
	return slug + "-" + uuid.NewString()[:8]
}

func (s *Server) handleArtworkCreate(w http.ResponseWriter, r *http.Request) {
	form, err := parseArtworkForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	images, err := s.storeImages(form.Files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	now := s.now()
	record := artworkModel{
		ID:              uuid.NewString(),
		Title:           form.Title,
		Description:     form.Description,
		Category:        form.Category,
		Medium:          form.Medium,
		Dimensions:      form.Dimensions,
		Year:            form.Year,
		Price:           form.Price,
		Tags:            form.Tags,
		Images:          markPrimary(images),
		Featured:        form.Featured,
		Sold:            form.Sold,
		PrintsAvailable: form.PrintsAvailable,
		PrintOptions:    form.PrintOptions,
		Slug:            slugify(form.Title),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create artwork"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"artwork": toArtworkPayload(record)})
}

func (s *Server) handleArtworkUpdate(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	form, err := parseArtworkForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record.Title = form.Title
	record.Description = form.Description
	record.Category = form.Category
	record.Medium = form.Medium
	record.Dimensions = form.Dimensions
	record.Year = form.Year
	record.Price = form.Price
	record.Tags = form.Tags
	record.Featured = form.Featured
	record.Sold = form.Sold
	record.PrintsAvailable = form.PrintsAvailable
	record.PrintOptions = form.PrintOptions
	if len(form.Files) > 0 {
		images, err := s.storeImages(form.Files)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		record.Images = markPrimary(images)
	}
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update artwork"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artwork": toArtworkPayload(record)})
}

// handleArtworkDelete soft-deletes: the record survives with is_active off so
// listings exclude it without breaking old references.
func (s *Server) handleArtworkDelete(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updates := map[string]any{"is_active": false, "updated_at": s.now()}
	if err := s.db.Model(&artworkModel{}).Where("id = ?", record.ID).Updates(updates).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete artwork"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "artwork deleted"})
}

func (s *Server) handleArtworkAddImages(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required"))
		return
	}
	added, err := s.storeImages(files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record.Images = append(record.Images, added...)
	if record.PrimaryOf() == nil {
		record.Images = markPrimary(record.Images)
	}
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add images"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artwork": toArtworkPayload(record)})
}

// decodePublicID reverses the path encoding of slashes in public ids.
func decodePublicID(segment string) string {
	return strings.ReplaceAll(segment, "--", "/")
}

func (s *Server) handleArtworkRemoveImage(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	publicID := decodePublicID(chi.URLParam(r, "publicId"))
	kept := make([]imageModel, 0, len(record.Images))
	removedPrimary := false
	found := false
	for _, image := range record.Images {
		if image.PublicID == publicID {
			found = true
			removedPrimary = image.IsPrimary
			continue
		}
		kept = append(kept, image)
	}
	if !found {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "image not found"))
		return
	}
	if removedPrimary && len(kept) > 0 {
		kept = markPrimary(kept)
	}
	record.Images = kept
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove image"))
		return
	}
	s.db.Delete(&uploadModel{}, "public_id = ?", publicID)
	writeJSON(w, http.StatusOK, map[string]any{"artwork": toArtworkPayload(record)})
}

func (s *Server) handleArtworkSetPrimary(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadArtwork(chi.URLParam(r, "artworkId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	publicID := decodePublicID(chi.URLParam(r, "publicId"))
	found := false
	for i := range record.Images {
		match := record.Images[i].PublicID == publicID
		record.Images[i].IsPrimary = match
		if match {
			found = true
		}
	}
	if !found {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "image not found"))
		return
	}
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set primary image"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artwork": toArtworkPayload(record)})
}
