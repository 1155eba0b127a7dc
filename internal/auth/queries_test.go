package auth

import (
	"context"
	"testing"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

type stubService struct {
	meCalls   int
	meErr     error
	hasTokens bool
	logoutErr error
	user      User
}

func (s *stubService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	user := s.user
	user.Email = input.Email
	s.hasTokens = true
	return &user, nil
}

func (s *stubService) Login(ctx context.Context, input LoginInput) (*User, error) {
	user := s.user
	user.Email = input.Email
	s.hasTokens = true
	return &user, nil
}

func (s *stubService) Refresh(ctx context.Context) error { return nil }

func (s *stubService) Logout(ctx context.Context) error {
	s.hasTokens = false
	return s.logoutErr
}

func (s *stubService) Me(ctx context.Context) (*User, error) {
	s.meCalls++
	if s.meErr != nil {
		return nil, s.meErr
	}
	user := s.user
	return &user, nil
}

func (s *stubService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	user := s.user
	user.Name = input.Name
	return &user, nil
}

func (s *stubService) HasTokens() bool { return s.hasTokens }

func newQueries(t *testing.T, svc Service) (*Queries, *cache.MemoryStore, *notify.Recorder) {
	t.Helper()
	store := cache.NewMemoryStore()
	rec := notify.NewRecorder()
	queries, err := NewQueries(QueriesParams{
		Service:  svc,
		Cache:    cache.New(store, nil),
		TTL:      config.CacheConfig{SessionTTL: 5 * time.Second},
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("NewQueries: %v", err)
	}
	return queries, store, rec
}

func TestMeCachesWithinSessionWindow(t *testing.T) {
	svc := &stubService{user: User{ID: "u1"}, hasTokens: true}
	queries, _, _ := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.Me(ctx); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if _, err := queries.Me(ctx); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if svc.meCalls != 1 {
		t.Fatalf("expected one network call, got %d", svc.meCalls)
	}
}

func TestMeUnauthorizedEvictsSessionEntry(t *testing.T) {
	svc := &stubService{user: User{ID: "u1"}, hasTokens: true}
	queries, store, _ := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.Me(ctx); err != nil {
		t.Fatalf("Me: %v", err)
	}
	// Force a miss so the next read hits the failing loader.
	store.Delete(ctx, meKey().String())

	svc.meErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "session invalid")
	if _, err := queries.Me(ctx); err == nil {
		t.Fatalf("expected failure")
	}
	if _, ok, _ := store.Get(ctx, meKey().String()); ok {
		t.Fatalf("session entry should be evicted on 401")
	}
}

func TestIsAuthenticatedDerivedFromInputs(t *testing.T) {
	svc := &stubService{user: User{ID: "u1"}}
	queries, _, _ := newQueries(t, svc)
	ctx := context.Background()

	if queries.IsAuthenticated(ctx) {
		t.Fatalf("no tokens means not authenticated, regardless of cache")
	}

	svc.hasTokens = true
	if !queries.IsAuthenticated(ctx) {
		t.Fatalf("tokens plus a resolvable user means authenticated")
	}

	svc.meErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "session invalid")
	svc.hasTokens = false
	if queries.IsAuthenticated(ctx) {
		t.Fatalf("cleared tokens must flip the derived status")
	}
}

func TestLogoutDropsSessionEntryEvenOnServerFailure(t *testing.T) {
	svc := &stubService{user: User{ID: "u1"}, hasTokens: true}
	queries, store, rec := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.Login(ctx, LoginInput{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.logoutErr = pkgerrors.New(pkgerrors.CodeNetwork, "connection refused")
	if err := queries.Logout(ctx); err != nil {
		t.Fatalf("Logout should be fail-open, got %v", err)
	}
	if _, ok, _ := store.Get(ctx, meKey().String()); ok {
		t.Fatalf("session entry must be dropped on logout")
	}
	last, _ := rec.Last()
	if last.Level != notify.LevelInfo {
		t.Fatalf("degraded logout should be surfaced, got %+v", last)
	}
}

func TestUpdateProfilePatchesSessionEntry(t *testing.T) {
	svc := &stubService{user: User{ID: "u1", Name: "Old"}, hasTokens: true}
	queries, _, rec := newQueries(t, svc)
	ctx := context.Background()

	if _, err := queries.UpdateProfile(ctx, UpdateProfileInput{Name: "New"}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	user, err := queries.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if svc.meCalls != 0 {
		t.Fatalf("session entry should come from the mutation patch")
	}
	if user.Name != "New" {
		t.Fatalf("session cache holds %q, want the returned record", user.Name)
	}
	last, _ := rec.Last()
	if last.Level != notify.LevelSuccess {
		t.Fatalf("profile update must notify success")
	}
}
