// Package contact wraps the contact-message endpoints: public form
// submission plus the admin triage calls.
package contact

import (
	"context"
	"net/http"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

// Status is the triage state of a contact message.
type Status string

const (
	StatusPending Status = "pending"
	StatusRead    Status = "read"
	StatusClosed  Status = "closed"
)

// Message is a contact-form submission.
type Message struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	InquiryType string    `json:"inquiryType,omitempty"`
	Status      Status    `json:"status"`
	Response    string    `json:"response,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries a public contact-form submission.
type CreateInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Subject     string `json:"subject" validate:"max=300"`
	Message     string `json:"message" validate:"required,max=5000"`
	InquiryType string `json:"inquiryType" validate:"max=100"`
}

// UpdateInput carries an admin status or response edit. Empty fields are
// left unchanged.
type UpdateInput struct {
	Status   Status `json:"status,omitempty" validate:"omitempty,oneof=pending read closed"`
	Response string `json:"response,omitempty" validate:"omitempty,max=5000"`
}

type detailEnvelope struct {
	Contact Message `json:"contact"`
}

type listEnvelope struct {
	Contacts []Message `json:"contacts"`
	Total    int       `json:"total"`
}

// ServiceParams groups dependencies for the contact service.
type ServiceParams struct {
	Client *rest.Client
}

// Service exposes the contact endpoint surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Message, error)
	List(ctx context.Context) ([]Message, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Message, error)
}

type service struct {
	client *rest.Client
}

// NewService builds a contact service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	return &service{client: params.Client}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Message, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, "/contacts", nil, input, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}

func (s *service) List(ctx context.Context) ([]Message, error) {
	var out listEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/contacts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Contacts, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Message, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact id is required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodPut, "/contacts/"+id, nil, input, &out); err != nil {
		return nil, err
	}
	return &out.Contact, nil
}
