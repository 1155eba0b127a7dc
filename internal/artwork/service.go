// Package artwork wraps the artwork endpoints: CRUD over the full record
// plus the targeted image subset operations. One function per REST call.
package artwork

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

// ServiceParams groups dependencies for the artwork service.
type ServiceParams struct {
	Client *rest.Client
}

// Service exposes the artwork endpoint surface.
type Service interface {
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Get(ctx context.Context, id string) (*Artwork, error)
	Create(ctx context.Context, input CreateInput) (*Artwork, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Artwork, error)
	Delete(ctx context.Context, id string) error
	AddImages(ctx context.Context, id string, files []upload.File) (*Artwork, error)
	RemoveImage(ctx context.Context, id, publicID string) (*Artwork, error)
	SetPrimaryImage(ctx context.Context, id, publicID string) (*Artwork, error)
	Images(ctx context.Context, id string) ([]ImageRef, error)
	Featured(ctx context.Context) ([]Artwork, error)
	ByCategory(ctx context.Context, category Category) ([]Artwork, error)
	Search(ctx context.Context, query string) ([]Artwork, error)
}

type service struct {
	client *rest.Client
}

// NewService builds an artwork service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	return &service{client: params.Client}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	var out ListResult
	if err := s.client.JSON(ctx, http.MethodGet, "/artwork", filter.values(), nil, &out); err != nil {
		return ListResult{}, err
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Artwork, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	var out detailEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/artwork/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Artwork, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	form, err := recordForm(formInput{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Medium:          input.Medium,
		Dimensions:      input.Dimensions,
		Year:            input.Year,
		Price:           priceString(input),
		Tags:            input.Tags,
		Featured:        input.Featured,
		Sold:            input.Sold,
		PrintsAvailable: input.PrintsAvailable,
		PrintOptions:    input.PrintOptions,
		Images:          input.Images,
	})
	if err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.Multipart(ctx, http.MethodPost, "/artwork", form, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Artwork, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	form, err := recordForm(formInput{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Medium:          input.Medium,
		Dimensions:      input.Dimensions,
		Year:            input.Year,
		Price:           updatePriceString(input),
		Tags:            input.Tags,
		Featured:        input.Featured,
		Sold:            input.Sold,
		PrintsAvailable: input.PrintsAvailable,
		PrintOptions:    input.PrintOptions,
		Images:          input.Images,
	})
	if err != nil {
		return nil, err
	}
	var out detailEnvelope
	if err := s.client.Multipart(ctx, http.MethodPut, "/artwork/"+id, form, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	return s.client.JSON(ctx, http.MethodDelete, "/artwork/"+id, nil, nil, nil)
}

func (s *service) AddImages(ctx context.Context, id string, files []upload.File) (*Artwork, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	form := rest.NewForm()
	for _, file := range files {
		form.AddFile("images", file.Name, file.Content)
	}
	var out detailEnvelope
	if err := s.client.Multipart(ctx, http.MethodPost, "/artwork/"+id+"/images", form, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) RemoveImage(ctx context.Context, id, publicID string) (*Artwork, error) {
	if id == "" || publicID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id and public id are required")
	}
	var out detailEnvelope
	path := "/artwork/" + id + "/images/" + upload.EncodePublicID(publicID)
	if err := s.client.JSON(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) SetPrimaryImage(ctx context.Context, id, publicID string) (*Artwork, error) {
	if id == "" || publicID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id and public id are required")
	}
	var out detailEnvelope
	path := "/artwork/" + id + "/images/" + upload.EncodePublicID(publicID) + "/primary"
	if err := s.client.JSON(ctx, http.MethodPut, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Artwork, nil
}

func (s *service) Images(ctx context.Context, id string) ([]ImageRef, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	var out imagesEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/artwork/"+id+"/images", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

func (s *service) Featured(ctx context.Context) ([]Artwork, error) {
	featured := true
	result, err := s.List(ctx, ListFilter{Featured: &featured})
	if err != nil {
		return nil, err
	}
	return result.Artworks, nil
}

func (s *service) ByCategory(ctx context.Context, category Category) ([]Artwork, error) {
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	result, err := s.List(ctx, ListFilter{Category: category})
	if err != nil {
		return nil, err
	}
	return result.Artworks, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Artwork, error) {
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	values := url.Values{}
	values.Set("search", query)
	var out ListResult
	if err := s.client.JSON(ctx, http.MethodGet, "/artwork", values, nil, &out); err != nil {
		return nil, err
	}
	return out.Artworks, nil
}

type formInput struct {
	Title           string
	Description     string
	Category        Category
	Medium          string
	Dimensions      string
	Year            int
	Price           string
	Tags            []string
	Featured        bool
	Sold            bool
	PrintsAvailable bool
	PrintOptions    []PrintOption
	Images          []upload.File
}

func recordForm(input formInput) (*rest.Form, error) {
	form := rest.NewForm().
		Set("title", input.Title).
		Set("description", input.Description).
		Set("category", string(input.Category)).
		Set("medium", input.Medium).
		Set("dimensions", input.Dimensions).
		Set("price", input.Price).
		Set("featured", strconv.FormatBool(input.Featured)).
		Set("sold", strconv.FormatBool(input.Sold)).
		Set("printsAvailable", strconv.FormatBool(input.PrintsAvailable))
	if input.Year > 0 {
		form.Set("year", strconv.Itoa(input.Year))
	}
	for _, tag := range input.Tags {
		form.Set("tags", tag)
	}
	if len(input.PrintOptions) > 0 {
		raw, err := json.Marshal(input.PrintOptions)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode print options")
		}
		form.Set("printOptions", string(raw))
	}
	for _, file := range input.Images {
		form.AddFile("images", file.Name, file.Content)
	}
	return form, nil
}

func priceString(input CreateInput) string {
	if input.Price == nil {
		return ""
	}
	return input.Price.String()
}

func updatePriceString(input UpdateInput) string {
	if input.Price == nil {
		return ""
	}
	return input.Price.String()
}
