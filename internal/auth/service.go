// Package auth wraps the session endpoints. Token persistence goes through
// the shared client's helpers; nothing here touches stored credentials
// directly.
package auth

import (
	"context"
	"net/http"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Client *rest.Client
}

// Service exposes the auth endpoint surface.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (*User, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error)
	HasTokens() bool
}

type service struct {
	client *rest.Client
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rest client is required")
	}
	return &service{client: params.Client}, nil
}

// Register creates the account and persists the returned token pair.
func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out sessionEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, "/auth/register", nil, input, &out); err != nil {
		return nil, err
	}
	if err := s.client.PersistTokens(out.AccessToken, out.RefreshToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist tokens")
	}
	return &out.User, nil
}

// Login authenticates and persists the returned token pair.
func (s *service) Login(ctx context.Context, input LoginInput) (*User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out sessionEnvelope
	if err := s.client.JSON(ctx, http.MethodPost, "/auth/login", nil, input, &out); err != nil {
		return nil, err
	}
	if err := s.client.PersistTokens(out.AccessToken, out.RefreshToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist tokens")
	}
	return &out.User, nil
}

// Refresh exchanges the persisted refresh token for a fresh pair.
func (s *service) Refresh(ctx context.Context) error {
	return s.client.RefreshSession(ctx)
}

// Logout tells the server best-effort, then always clears local tokens. A
// failed server call never leaves the client believing it is logged in.
func (s *service) Logout(ctx context.Context) error {
	callErr := s.client.JSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if err := s.client.ClearSession(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	return callErr
}

// Me fetches the current user.
func (s *service) Me(ctx context.Context) (*User, error) {
	var out userEnvelope
	if err := s.client.JSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile edits the current user's profile.
func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	var out userEnvelope
	if err := s.client.JSON(ctx, http.MethodPut, "/auth/profile", nil, input, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// HasTokens reports whether credentials are persisted.
func (s *service) HasTokens() bool {
	return s.client.HasTokens()
}
