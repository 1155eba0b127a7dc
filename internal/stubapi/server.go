// Package stubapi is a local stand-in for the remote portfolio API: the full
// endpoint surface the client consumes, backed by SQLite. Integration tests
// run the SDK against it; `portfolio-stub` serves it for local development.
package stubapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/security"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/validate"
)

// Params groups dependencies for the stub server.
type Params struct {
	DB       *gorm.DB
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Stub     config.StubConfig
	Logger   *logger.Logger
}

// Server holds the stub API's state and handlers.
type Server struct {
	db       *gorm.DB
	jwt      config.JWTConfig
	password config.PasswordConfig
	stub     config.StubConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewServer builds the stub API against an opened store.
func NewServer(params Params) (*Server, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "database handle is required")
	}
	return &Server{
		db:       params.DB,
		jwt:      params.JWT,
		password: params.Password,
		stub:     params.Stub,
		logger:   params.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Handler assembles the chi router for the full endpoint surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", s.handleMe)
		r.With(s.requireAuth).Put("/profile", s.handleUpdateProfile)
	})

	r.Route("/artwork", func(r chi.Router) {
		r.Get("/", s.handleArtworkList)
		r.Get("/{artworkId}", s.handleArtworkGet)
		r.Get("/{artworkId}/images", s.handleArtworkImages)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleArtworkCreate)
			r.Put("/{artworkId}", s.handleArtworkUpdate)
			r.Delete("/{artworkId}", s.handleArtworkDelete)
			r.Post("/{artworkId}/images", s.handleArtworkAddImages)
			r.Delete("/{artworkId}/images/{publicId}", s.handleArtworkRemoveImage)
			r.Put("/{artworkId}/images/{publicId}/primary", s.handleArtworkSetPrimary)
		})
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Post("/", s.handleContactCreate)
		r.With(s.requireAuth).Get("/", s.handleContactList)
		r.With(s.requireAuth).Put("/{contactId}", s.handleContactUpdate)
	})

	r.Route("/inquiries", func(r chi.Router) {
		r.Post("/", s.handleInquiryCreate)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleInquiryList)
			r.Get("/stats/summary", s.handleInquiryStats)
			r.Get("/export/csv", s.handleInquiryExport)
			r.Post("/bulk-actions", s.handleInquiryBulk)
			r.Get("/{inquiryId}", s.handleInquiryGet)
			r.Delete("/{inquiryId}", s.handleInquiryDelete)
			r.Put("/{inquiryId}/status", s.handleInquiryUpdateStatus)
			r.Put("/{inquiryId}/note", s.handleInquiryAddNote)
		})
	})

	r.Route("/upload", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/single", s.handleUploadSingle)
		r.Post("/multiple", s.handleUploadMultiple)
		r.Post("/artwork-images", s.handleUploadArtworkImages)
		r.Get("/image-info/{publicId}", s.handleUploadInfo)
		r.Delete("/{publicId}", s.handleUploadDelete)
	})

	return r
}

type ctxKey int

const userKey ctxKey = iota

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		claims, err := parseAccessToken(s.jwt, token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var user userModel
		if err := s.db.First(&user, "id = ?", claims.Subject).Error; err != nil {
			s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, &user)))
	})
}

func currentUser(r *http.Request) *userModel {
	user, _ := r.Context().Value(userKey).(*userModel)
	return user
}

func bearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

type userPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserPayload(m userModel) userPayload {
	return userPayload{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Bio:       m.Bio,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type sessionPayload struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         userPayload `json:"user"`
}

// issuePair mints an access token and stores a fresh refresh token.
func (s *Server) issuePair(user userModel) (sessionPayload, error) {
	now := s.now()
	access, err := mintAccessToken(s.jwt, now, user.ID, user.Role)
	if err != nil {
		return sessionPayload{}, err
	}
	refresh := refreshTokenModel{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwt.RefreshTokenTTL()),
	}
	if err := s.db.Create(&refresh).Error; err != nil {
		return sessionPayload{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	return sessionPayload{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		User:         toUserPayload(user),
	}, nil
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	var count int64
	if err := s.db.Model(&userModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email"))
		return
	}
	if count > 0 {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeConflict, "email already exists"))
		return
	}
	hash, err := security.HashPassword(body.Password, s.password)
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password"))
		return
	}
	now := s.now()
	user := userModel{
		ID:           uuid.NewString(),
		Name:         body.Name,
		Email:        email,
		Role:         "admin",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.Create(&user).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user"))
		return
	}
	session, err := s.issuePair(user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var user userModel
	err := s.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(body.Email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
		return
	}
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user"))
		return
	}
	ok, err := security.VerifyPassword(body.Password, user.PasswordHash)
	if err != nil || !ok {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
		return
	}
	session, err := s.issuePair(user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// handleRefresh rotates the presented refresh token: single use, revoked on
// exchange, replaced in the response.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var stored refreshTokenModel
	err := s.db.First(&stored, "token = ?", body.RefreshToken).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token"))
		return
	}
	if err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refresh token"))
		return
	}
	if stored.Revoked || s.now().After(stored.ExpiresAt) {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token revoked"))
		return
	}
	var user userModel
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		s.writeError(w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
		return
	}
	if err := s.db.Model(&refreshTokenModel{}).Where("token = ?", stored.Token).Update("revoked", true).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke refresh token"))
		return
	}
	session, err := s.issuePair(user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleLogout revokes every refresh token of the presented session. The
// bearer token is parsed leniently; logout succeeds even without one so a
// half-broken client can always finish logging out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, err := bearerToken(r); err == nil {
		if claims, err := parseAccessToken(s.jwt, token); err == nil {
			s.db.Model(&refreshTokenModel{}).Where("user_id = ?", claims.Subject).Update("revoked", true)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(*currentUser(r))})
}

type profileRequest struct {
	Name  string `json:"name" validate:"omitempty,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
	Bio   string `json:"bio" validate:"omitempty,max=2000"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := validate.DecodeJSONBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	user := *currentUser(r)
	if body.Name != "" {
		user.Name = body.Name
	}
	if body.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(body.Email))
	}
	if body.Phone != "" {
		user.Phone = body.Phone
	}
	if body.Bio != "" {
		user.Bio = body.Bio
	}
	user.UpdatedAt = s.now()
	if err := s.db.Save(&user).Error; err != nil {
		s.writeError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}
