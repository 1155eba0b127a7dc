package stubapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

type variantsPayload struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Small     string `json:"small"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
	Gallery   string `json:"gallery"`
}

type imagePayload struct {
	PublicID         string          `json:"publicId"`
	URL              string          `json:"url"`
	Variants         variantsPayload `json:"variants"`
	OriginalFilename string          `json:"originalFilename,omitempty"`
	Format           string          `json:"format,omitempty"`
	Bytes            int64           `json:"bytes,omitempty"`
}

// assetURL synthesizes a hosted URL under the configured asset base. There
// is no real image pipeline behind the stub; the URLs just need to be
// stable and distinct per variant.
func (s *Server) assetURL(variant, publicID, format string) string {
	base := strings.TrimRight(s.stub.AssetBase, "/")
	if variant != "" {
		return base + "/" + variant + "/" + publicID + "." + format
	}
	return base + "/" + publicID + "." + format
}

func (s *Server) toImagePayload(record uploadModel) imagePayload {
	return imagePayload{
		PublicID: record.PublicID,
		URL:      s.assetURL("", record.PublicID, record.Format),
		Variants: variantsPayload{
			Original:  s.assetURL("", record.PublicID, record.Format),
			Thumbnail: s.assetURL("thumbnail", record.PublicID, record.Format),
			Small:     s.assetURL("small", record.PublicID, record.Format),
			Medium:    s.assetURL("medium", record.PublicID, record.Format),
			Large:     s.assetURL("large", record.PublicID, record.Format),
			Gallery:   s.assetURL("gallery", record.PublicID, record.Format),
		},
		OriginalFilename: record.OriginalFilename,
		Format:           record.Format,
		Bytes:            record.Bytes,
	}
}

func fileFormat(filename string) string {
	format := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if format == "" {
		format = "jpg"
	}
	return format
}

// registerUpload records one incoming file under a fresh public id.
func (s *Server) registerUpload(filename string, size int64) (uploadModel, error) {
	record := uploadModel{
		PublicID:         "portfolio/artworks/" + uuid.NewString(),
		OriginalFilename: filename,
		Format:           fileFormat(filename),
		Bytes:            size,
		CreatedAt:        s.now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return record, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record upload")
	}
	return record, nil
}

func (s *Server) parseUploadFiles(r *http.Request, field string) ([]*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no file provided")
	}
	return files, nil
}

func (s *Server) handleUploadSingle(w http.ResponseWriter, r *http.Request) {
	files, err := s.parseUploadFiles(r, "image")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.registerUpload(files[0].Filename, files[0].Size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"image": s.toImagePayload(record)})
}

func (s *Server) uploadMany(w http.ResponseWriter, r *http.Request) {
	files, err := s.parseUploadFiles(r, "images")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	images := make([]imagePayload, 0, len(files))
	for _, header := range files {
		record, err := s.registerUpload(header.Filename, header.Size)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		images = append(images, s.toImagePayload(record))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"images": images})
}

func (s *Server) handleUploadMultiple(w http.ResponseWriter, r *http.Request) {
	s.uploadMany(w, r)
}

// handleUploadArtworkImages accepts the same multi-file form plus optional
// artworkTitle/artworkCategory grouping hints, which the stub ignores.
func (s *Server) handleUploadArtworkImages(w http.ResponseWriter, r *http.Request) {
	s.uploadMany(w, r)
}

func (s *Server) handleUploadInfo(w http.ResponseWriter, r *http.Request) {
	publicID := decodePublicID(chi.URLParam(r, "publicId"))
	var record uploadModel
	err := s.db.First(&record, "public_id = ?", publicID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "image not found"))
		return
	}
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load upload"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"image": s.toImagePayload(record)})
}

func (s *Server) handleUploadDelete(w http.ResponseWriter, r *http.Request) {
	publicID := decodePublicID(chi.URLParam(r, "publicId"))
	result := s.db.Delete(&uploadModel{}, "public_id = ?", publicID)
	if result.Error != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "delete upload"))
		return
	}
	if result.RowsAffected == 0 {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "image not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}
