// Package inquiry wraps the inquiry endpoints, including the batch
// operations and the CSV export used by the admin back office.
package inquiry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/multierr"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

// ServiceParams groups dependencies for the inquiry service.
type ServiceParams struct {
	Client *rest.Client
}

// Service exposes the inquiry endpoint surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Inquiry, error)
	List(ctx context.Context, filter ListFilter) ([]Inquiry, error)
	Get(ctx context.Context, id string) (*Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Inquiry, error)
	AddNote(ctx context.Context, id, note string) (*Inquiry, error)
	Delete(ctx context.Context, id string) error
	BulkAction(ctx context.Context, input BulkActionInput) (*BulkActionResult, error)
	Stats(ctx context.Context) (*Stats, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

type service struct {
	client *rest.Client
}

// NewService builds an inquiry service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	return &service{client: params.Client}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Inquiry, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, "/inquiries", nil, input, &out); err != nil {
		return nil, err
	}
	return &out.Inquiry, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Inquiry, error) {
	var out listEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/inquiries", filter.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Inquiries, nil
}

func (s *service) Get(ctx context.Context, id string) (*Inquiry, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry id is required")
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/inquiries/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Inquiry, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Inquiry, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry id is required")
	}
	payload := struct {
		Status Status `json:"status" validate:"required,oneof=pending contacted closed"`
	}{Status: status}
	if err := validate.Struct(payload); err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodPut, "/inquiries/"+id+"/status", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out.Inquiry, nil
}

func (s *service) AddNote(ctx context.Context, id, note string) (*Inquiry, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry id is required")
	}
	if strings.TrimSpace(note) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note is required")
	}
	payload := map[string]string{"note": note}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodPut, "/inquiries/"+id+"/note", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out.Inquiry, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "inquiry id is required")
	}
	return s.client.JSON(ctx, http.MethodDelete, "/inquiries/"+id, nil, nil, nil)
}

// BulkAction applies one action over an id list in a single request. The id
// list is validated client-side first; every bad entry is reported, not just
// the first.
func (s *service) BulkAction(ctx context.Context, input BulkActionInput) (*BulkActionResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var idErrs error
	for i, id := range input.IDs {
		if strings.TrimSpace(id) == "" {
			idErrs = multierr.Append(idErrs, fmt.Errorf("id at position %d is empty", i))
		}
	}
	if idErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, idErrs, "invalid inquiry ids")
	}
	var out BulkActionResult
	if err := s.client.JSON(ctx, http.MethodPost, "/inquiries/bulk-actions", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var out statsEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/inquiries/stats/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// ExportCSV downloads the full inquiry list as delimited text. The caller
// names the file, typically with ExportFilename.
func (s *service) ExportCSV(ctx context.Context) ([]byte, error) {
	return s.client.Bytes(ctx, http.MethodGet, "/inquiries/export/csv", nil)
}
