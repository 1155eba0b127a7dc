package contact

import (
	"context"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var keyRoot = cache.NewKey("contact")

func listKey() cache.Key {
	return keyRoot.Op("list").Params(nil)
}

// QueriesParams groups dependencies for the cache-backed contact layer.
type QueriesParams struct {
	Service  Service
	Cache    *cache.Cache
	TTL      config.CacheConfig
	Notifier notify.Notifier
}

// Queries binds the contact service to the cache. The admin list is the only
// cached read; both mutations stale it.
type Queries struct {
	svc      Service
	cache    *cache.Cache
	ttl      config.CacheConfig
	notifier notify.Notifier
}

// NewQueries builds the cache-backed contact layer.
func NewQueries(params QueriesParams) (*Queries, error) {
	if params.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact service is required")
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

// List serves the admin contact list.
func (q *Queries) List(ctx context.Context) ([]Message, error) {
	return cache.Fetch(ctx, q.cache, listKey(), q.ttl.ListTTL, func(ctx context.Context) ([]Message, error) {
		return q.svc.List(ctx)
	})
}

// Create submits a contact-form message and stales the admin list.
func (q *Queries) Create(ctx context.Context, input CreateInput) (*Message, error) {
	record, err := q.svc.Create(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("list"))
	q.notifier.Success(ctx, "Message sent")
	return record, nil
}

// Update edits a message's status or response and stales the admin list.
func (q *Queries) Update(ctx context.Context, id string, input UpdateInput) (*Message, error) {
	record, err := q.svc.Update(ctx, id, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("list"))
	q.notifier.Success(ctx, "Contact updated")
	return record, nil
}
