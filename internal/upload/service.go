// Package upload wraps the image-host endpoints. The service is one function
// per REST call; Queries layers the cached image-metadata read and the
// notification contract on top.
package upload

import (
	"context"
	"net/http"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

// ServiceParams groups dependencies for the upload service.
type ServiceParams struct {
	Client *rest.Client
}

// Service exposes the upload endpoint surface.
type Service interface {
	UploadSingle(ctx context.Context, file File) (*Image, error)
	UploadMultiple(ctx context.Context, files []File) ([]Image, error)
	UploadArtworkImages(ctx context.Context, files []File, artwork ArtworkContext) ([]Image, error)
	Delete(ctx context.Context, publicID string) error
	ImageInfo(ctx context.Context, publicID string) (*Image, error)
}

type service struct {
	client *rest.Client
}

// NewService builds an upload service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	return &service{client: params.Client}, nil
}

func (s *service) UploadSingle(ctx context.Context, file File) (*Image, error) {
	if len(file.Content) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}
	form := rest.NewForm().AddFile("image", file.Name, file.Content)
	var out singleEnvelope
	if err := s.client.Multipart(ctx, http.MethodPost, "/upload/single", form, &out); err != nil {
		return nil, err
	}
	return &out.Image, nil
}

func (s *service) UploadMultiple(ctx context.Context, files []File) ([]Image, error) {
	form, err := multiFileForm(files)
	if err != nil {
		return nil, err
	}
	var out multiEnvelope
	if err := s.client.Multipart(ctx, http.MethodPost, "/upload/multiple", form, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

func (s *service) UploadArtworkImages(ctx context.Context, files []File, artwork ArtworkContext) ([]Image, error) {
	form, err := multiFileForm(files)
	if err != nil {
		return nil, err
	}
	form.Set("artworkTitle", artwork.Title)
	form.Set("artworkCategory", artwork.Category)
	var out multiEnvelope
	if err := s.client.Multipart(ctx, http.MethodPost, "/upload/artwork-images", form, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

func (s *service) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	return s.client.JSON(ctx, http.MethodDelete, "/upload/"+EncodePublicID(publicID), nil, nil, nil)
}

func (s *service) ImageInfo(ctx context.Context, publicID string) (*Image, error) {
	if publicID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	var out singleEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/upload/image-info/"+EncodePublicID(publicID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Image, nil
}

func multiFileForm(files []File) (*rest.Form, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one file is required")
	}
	form := rest.NewForm()
	for _, file := range files {
		if len(file.Content) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
		}
		form.AddFile("images", file.Name, file.Content)
	}
	return form, nil
}
