package inquiry

import (
	"context"
	"fmt"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var keyRoot = cache.NewKey("inquiry")

func listKey(filter ListFilter) cache.Key {
	return keyRoot.Op("list").Params(filter.cacheParams())
}

func detailKey(id string) cache.Key {
	return keyRoot.Op("detail").ID(id)
}

func statsKey() cache.Key {
	return keyRoot.Op("stats")
}

// QueriesParams groups dependencies for the cache-backed inquiry layer.
type QueriesParams struct {
	Service  Service
	Cache    *cache.Cache
	TTL      config.CacheConfig
	Notifier notify.Notifier
}

// Queries binds the inquiry service to the cache hierarchy. Every mutation
// stales the list and stats entries; single-record mutations additionally
// patch the detail entry with the server's returned record.
type Queries struct {
	svc      Service
	cache    *cache.Cache
	ttl      config.CacheConfig
	notifier notify.Notifier
}

// NewQueries builds the cache-backed inquiry layer.
func NewQueries(params QueriesParams) (*Queries, error) {
	if params.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry service is required")
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

// List serves the admin inquiry list, cached per canonical filter.
func (q *Queries) List(ctx context.Context, filter ListFilter) ([]Inquiry, error) {
	return cache.Fetch(ctx, q.cache, listKey(filter), q.ttl.ListTTL, func(ctx context.Context) ([]Inquiry, error) {
		return q.svc.List(ctx, filter)
	})
}

// Get serves one inquiry, cached by id.
func (q *Queries) Get(ctx context.Context, id string) (*Inquiry, error) {
	return cache.Fetch(ctx, q.cache, detailKey(id), q.ttl.DetailTTL, func(ctx context.Context) (*Inquiry, error) {
		return q.svc.Get(ctx, id)
	})
}

// Stats serves the triage summary.
func (q *Queries) Stats(ctx context.Context) (*Stats, error) {
	return cache.Fetch(ctx, q.cache, statsKey(), q.ttl.StatsTTL, func(ctx context.Context) (*Stats, error) {
		return q.svc.Stats(ctx)
	})
}

// Create submits a public inquiry, seeds its detail entry, and stales the
// admin views.
func (q *Queries) Create(ctx context.Context, input CreateInput) (*Inquiry, error) {
	record, err := q.svc.Create(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Inquiry sent")
	return record, nil
}

// UpdateStatus moves one inquiry through triage.
func (q *Queries) UpdateStatus(ctx context.Context, id string, status Status) (*Inquiry, error) {
	record, err := q.svc.UpdateStatus(ctx, id, status)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, fmt.Sprintf("Inquiry marked %s", status))
	return record, nil
}

// AddNote appends the admin note.
func (q *Queries) AddNote(ctx context.Context, id, note string) (*Inquiry, error) {
	record, err := q.svc.AddNote(ctx, id, note)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Note saved")
	return record, nil
}

// Delete removes one inquiry and evicts its cache entries.
func (q *Queries) Delete(ctx context.Context, id string) error {
	if err := q.svc.Delete(ctx, id); err != nil {
		q.notifier.Error(ctx, err)
		return err
	}
	q.cache.Invalidate(ctx, detailKey(id))
	q.staleAggregates(ctx)
	q.notifier.Success(ctx, "Inquiry deleted")
	return nil
}

// BulkAction applies one action over many inquiries in one network call,
// then stales the list and stats so the next reads refetch.
func (q *Queries) BulkAction(ctx context.Context, input BulkActionInput) (*BulkActionResult, error) {
	result, err := q.svc.BulkAction(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	keys := make([]cache.Key, 0, len(input.IDs))
	for _, id := range input.IDs {
		keys = append(keys, detailKey(id))
	}
	q.cache.Invalidate(ctx, keys...)
	q.staleAggregates(ctx)
	q.notifier.Success(ctx, fmt.Sprintf("Updated %d inquiries", result.Affected))
	return result, nil
}

// ExportCSV downloads the inquiry export; the bytes are never cached.
func (q *Queries) ExportCSV(ctx context.Context) ([]byte, error) {
	raw, err := q.svc.ExportCSV(ctx)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.notifier.Success(ctx, "Export ready")
	return raw, nil
}

func (q *Queries) applyRecord(ctx context.Context, record *Inquiry) {
	if record == nil || record.ID == "" {
		return
	}
	cache.Put(ctx, q.cache, detailKey(record.ID), q.ttl.DetailTTL, record)
	q.staleAggregates(ctx)
}

func (q *Queries) staleAggregates(ctx context.Context) {
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("list"))
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("stats"))
}
