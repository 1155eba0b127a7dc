package stubapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

type contactPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	InquiryType string    `json:"inquiryType,omitempty"`
	Status      string    `json:"status"`
	Response    string    `json:"response,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toContactPayload(m contactModel) contactPayload {
	return contactPayload{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Subject:     m.Subject,
		Message:     m.Message,
		InquiryType: m.InquiryType,
		Status:      m.Status,
		Response:    m.Response,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type contactCreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Subject     string `json:"subject" validate:"max=300"`
	Message     string `json:"message" validate:"required,max=5000"`
	InquiryType string `json:"inquiryType" validate:"max=100"`
}

func (s *Server) handleContactCreate(w http.ResponseWriter, r *http.Request) {
	var body contactCreateRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	now := s.now()
	record := contactModel{
		ID:          uuid.NewString(),
		Name:        body.Name,
		Email:       body.Email,
		Subject:     body.Subject,
		Message:     body.Message,
		InquiryType: body.InquiryType,
		Status:      "pending",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contact"))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"contact": toContactPayload(record)})
}

func (s *Server) handleContactList(w http.ResponseWriter, r *http.Request) {
	var records []contactModel
	if err := s.db.Order("created_at DESC").Find(&records).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contacts"))
		return
	}
	contacts := make([]contactPayload, 0, len(records))
	for _, record := range records {
		contacts = append(contacts, toContactPayload(record))
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts, "total": len(contacts)})
}

type contactUpdateRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending read closed"`
	Response string `json:"response" validate:"omitempty,max=5000"`
}

func (s *Server) handleContactUpdate(w http.ResponseWriter, r *http.Request) {
	var body contactUpdateRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var record contactModel
	err := s.db.First(&record, "id = ?", chi.URLParam(r, "contactId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found"))
		return
	}
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contact"))
		return
	}
	if body.Status != "" {
		record.Status = body.Status
	}
	if body.Response != "" {
		record.Response = body.Response
	}
	record.UpdatedAt = s.now()
	if err := s.db.Save(&record).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update contact"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": toContactPayload(record)})
}
