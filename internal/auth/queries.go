package auth

import (
	"context"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var keyRoot = cache.NewKey("session")

func meKey() cache.Key {
	return keyRoot.Op("me")
}

// QueriesParams groups dependencies for the cache-backed session layer.
type QueriesParams struct {
	Service  Service
	Cache    *cache.Cache
	TTL      config.CacheConfig
	Notifier notify.Notifier
}

// Queries binds the auth service to the session cache entry. The session
// read is the one place that does not trust the cache blindly: a 401 means
// the session itself is invalid, so the entry and the persisted tokens are
// dropped before the error reaches the caller.
type Queries struct {
	svc      Service
	cache    *cache.Cache
	ttl      config.CacheConfig
	notifier notify.Notifier
}

// NewQueries builds the cache-backed session layer.
func NewQueries(params QueriesParams) (*Queries, error) {
	if params.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auth service is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	return &Queries{
		svc:      params.Service,
		cache:    params.Cache,
		ttl:      params.TTL,
		notifier: params.Notifier,
	}, nil
}

// Me serves the current user, cached under a near-immediate staleness
// window. On 401 the session cache entry is evicted before propagating.
func (q *Queries) Me(ctx context.Context) (*User, error) {
	user, err := cache.Fetch(ctx, q.cache, meKey(), q.ttl.SessionTTL, func(ctx context.Context) (*User, error) {
		return q.svc.Me(ctx)
	})
	if err != nil {
		if pkgerrors.Normalize(err).Code() == pkgerrors.CodeUnauthorized {
			q.cache.Invalidate(ctx, meKey())
		}
		return nil, err
	}
	return user, nil
}

// IsAuthenticated is derived purely from the cached session entry and token
// presence; it holds no state of its own.
func (q *Queries) IsAuthenticated(ctx context.Context) bool {
	if !q.svc.HasTokens() {
		return false
	}
	user, ok := cache.Peek[*User](ctx, q.cache, meKey())
	if ok {
		return user != nil
	}
	fetched, err := q.Me(ctx)
	return err == nil && fetched != nil
}

// Login authenticates and seeds the session entry.
func (q *Queries) Login(ctx context.Context, input LoginInput) (*User, error) {
	user, err := q.svc.Login(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	cache.Put(ctx, q.cache, meKey(), q.ttl.SessionTTL, user)
	q.notifier.Success(ctx, "Logged in")
	return user, nil
}

// Register creates the account and seeds the session entry.
func (q *Queries) Register(ctx context.Context, input RegisterInput) (*User, error) {
	user, err := q.svc.Register(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	cache.Put(ctx, q.cache, meKey(), q.ttl.SessionTTL, user)
	q.notifier.Success(ctx, "Account created")
	return user, nil
}

// Logout always drops the session entry, even when the server call failed;
// the service has already cleared persisted tokens unconditionally.
func (q *Queries) Logout(ctx context.Context) error {
	err := q.svc.Logout(ctx)
	q.cache.InvalidatePrefix(ctx, keyRoot)
	if err != nil {
		q.notifier.Info(ctx, "Logged out locally; the server could not be reached")
		return nil
	}
	q.notifier.Success(ctx, "Logged out")
	return nil
}

// UpdateProfile edits the profile and patches the session entry with the
// returned record.
func (q *Queries) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*User, error) {
	user, err := q.svc.UpdateProfile(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	cache.Put(ctx, q.cache, meKey(), q.ttl.SessionTTL, user)
	q.notifier.Success(ctx, "Profile updated")
	return user, nil
}
