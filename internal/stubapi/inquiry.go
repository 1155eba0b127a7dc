package stubapi

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

type inquiryPayload struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Message         string     `json:"message"`
	ArtworkID       string     `json:"artworkId,omitempty"`
	ArtworkTitle    string     `json:"artworkTitle,omitempty"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Archived        bool       `json:"archived"`
	Tags            []string   `json:"tags,omitempty"`
	AdminNote       string     `json:"adminNote,omitempty"`
	FollowUpDate    *time.Time `json:"followUpDate,omitempty"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toInquiryPayload(m inquiryModel) inquiryPayload {
	return inquiryPayload{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Message:         m.Message,
		ArtworkID:       m.ArtworkID,
		ArtworkTitle:    m.ArtworkTitle,
		Status:          m.Status,
		Priority:        m.Priority,
		Archived:        m.Archived,
		Tags:            m.Tags,
		AdminNote:       m.AdminNote,
		FollowUpDate:    m.FollowUpDate,
		LastContactedAt: m.LastContactedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type inquiryCreateRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Message      string `json:"message" validate:"required,max=5000"`
	ArtworkID    string `json:"artworkId"`
	ArtworkTitle string `json:"artworkTitle" validate:"max=300"`
}

func (s *Server) handleInquiryCreate(w http.ResponseWriter, r *http.Request) {
	var body inquiryCreateRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	title := body.ArtworkTitle
	if body.ArtworkID != "" {
		var artwork artworkModel
		if err := s.db.First(&artwork, "id = ?", body.ArtworkID).Error; err == nil {
			title = artwork.Title
		}
	}
	now := s.now()
	record := inquiryModel{
		ID:           uuid.NewString(),
		Name:         body.Name,
		Email:        body.Email,
		Message:      body.Message,
		ArtworkID:    body.ArtworkID,
		ArtworkTitle: title,
		Status:       "pending",
		Priority:     "medium",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"inquiry": toInquiryPayload(record)})
}

func (s *Server) inquiryQuery(r *http.Request) *gorm.DB {
	query := s.db.Model(&inquiryModel{})
	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := q.Get("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if archived := q.Get("archived"); archived != "" {
		query = query.Where("archived = ?", archived == "true")
	}
	switch q.Get("sort") {
	case "oldest":
		query = query.Order("created_at ASC")
	case "priority":
		query = query.Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}
	return query
}

func (s *Server) handleInquiryList(w http.ResponseWriter, r *http.Request) {
	var records []inquiryModel
	if err := s.inquiryQuery(r).Find(&records).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inquiries"))
		return
	}
	inquiries := make([]inquiryPayload, 0, len(records))
	for _, record := range records {
		inquiries = append(inquiries, toInquiryPayload(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiries": inquiries, "total": len(inquiries)})
}

func (s *Server) loadInquiry(id string) (inquiryModel, error) {
	var record inquiryModel
	err := s.db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
	}
	if err != nil {
		return record, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inquiry")
	}
	return record, nil
}

func (s *Server) handleInquiryGet(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadInquiry(chi.URLParam(r, "inquiryId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiry": toInquiryPayload(record)})
}

func (s *Server) handleInquiryDelete(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadInquiry(chi.URLParam(r, "inquiryId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.db.Delete(&inquiryModel{}, "id = ?", record.ID).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inquiry"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "inquiry deleted"})
}

type inquiryStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted closed"`
}

func (s *Server) handleInquiryUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body inquiryStatusRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.loadInquiry(chi.URLParam(r, "inquiryId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record.Status = body.Status
	now := s.now()
	if body.Status == "contacted" {
		record.LastContactedAt = &now
	}
	record.UpdatedAt = now
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry status"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiry": toInquiryPayload(record)})
}

type inquiryNoteRequest struct {
	Note string `json:"note" validate:"required,max=5000"`
}

func (s *Server) handleInquiryAddNote(w http.ResponseWriter, r *http.Request) {
	var body inquiryNoteRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.loadInquiry(chi.URLParam(r, "inquiryId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record.AdminNote = strings.TrimSpace(body.Note)
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save inquiry note"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiry": toInquiryPayload(record)})
}

type bulkActionRequest struct {
	Action string   `json:"action" validate:"required,oneof=delete update-status archive"`
	IDs    []string `json:"ids" validate:"required,min=1"`
	Status string   `json:"status" validate:"required_if=Action update-status,omitempty,oneof=pending contacted closed"`
}

func (s *Server) handleInquiryBulk(w http.ResponseWriter, r *http.Request) {
	var body bulkActionRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var result *gorm.DB
	switch body.Action {
	case "delete":
		result = s.db.Delete(&inquiryModel{}, "id IN ?", body.IDs)
	case "update-status":
		updates := map[string]any{"status": body.Status, "updated_at": s.now()}
		result = s.db.Model(&inquiryModel{}).Where("id IN ?", body.IDs).Updates(updates)
	case "archive":
		updates := map[string]any{"archived": true, "updated_at": s.now()}
		result = s.db.Model(&inquiryModel{}).Where("id IN ?", body.IDs).Updates(updates)
	}
	if result.Error != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "apply bulk action"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"affected": result.RowsAffected})
}

func (s *Server) handleInquiryStats(w http.ResponseWriter, r *http.Request) {
	counts := map[string]int64{}
	type clause struct {
		name  string
		where []any
	}
	clauses := []clause{
		{"total", nil},
		{"pending", []any{"status = ?", "pending"}},
		{"contacted", []any{"status = ?", "contacted"}},
		{"closed", []any{"status = ?", "closed"}},
		{"highPriority", []any{"priority = ?", "high"}},
		{"archived", []any{"archived = ?", true}},
	}
	for _, c := range clauses {
		query := s.db.Model(&inquiryModel{})
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		var n int64
		if err := query.Count(&n).Error; err != nil {
			s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inquiries"))
			return
		}
		counts[c.name] = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": counts})
}

func (s *Server) handleInquiryExport(w http.ResponseWriter, r *http.Request) {
	var records []inquiryModel
	if err := s.inquiryQuery(r).Find(&records).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "export inquiries"))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inquiries-`+s.now().Format("2006-01-02")+`.csv"`)
	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "name", "email", "message", "artworkTitle", "status", "priority", "archived", "createdAt"})
	for _, record := range records {
		writer.Write([]string{
			record.ID,
			record.Name,
			record.Email,
			record.Message,
			record.ArtworkTitle,
			record.Status,
			record.Priority,
			strconv.FormatBool(record.Archived),
			record.CreatedAt.Format(time.RFC3339),
		})
	}
	writer.Flush()
}
