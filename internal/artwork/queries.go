package artwork

import (
	"context"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var keyRoot = cache.NewKey("artwork")

// QueriesParams groups dependencies for the cache-backed artwork layer.
type QueriesParams struct {
	Service  Service
	Cache    *cache.Cache
	TTL      config.CacheConfig
	Notifier notify.Notifier
}

// Queries binds the artwork service to the cache hierarchy and owns the
// invalidation contract for every artwork mutation. Reads serve fresh cached
// values; mutations patch the detail entry with the server's returned record,
// stale every listing-style entry, and recompute the images summary from the
// parent record without a second network call.
type Queries struct {
	svc      Service
	cache    *cache.Cache
	ttl      config.CacheConfig
	notifier notify.Notifier
}

// NewQueries builds the cache-backed artwork layer.
func NewQueries(params QueriesParams) (*Queries, error) {
	if params.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork service is required")
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

func listKey(filter ListFilter) cache.Key {
	return keyRoot.Op("list").Params(filter.cacheParams())
}

func detailKey(id string) cache.Key {
	return keyRoot.Op("detail").ID(id)
}

func imagesKey(id string) cache.Key {
	return keyRoot.Op("images").ID(id)
}

// List serves a page of artworks, cached per canonical filter.
func (q *Queries) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	return cache.Fetch(ctx, q.cache, listKey(filter), q.ttl.ListTTL, func(ctx context.Context) (ListResult, error) {
		return q.svc.List(ctx, filter)
	})
}

// Get serves one artwork, cached by id.
func (q *Queries) Get(ctx context.Context, id string) (*Artwork, error) {
	return cache.Fetch(ctx, q.cache, detailKey(id), q.ttl.DetailTTL, func(ctx context.Context) (*Artwork, error) {
		return q.svc.Get(ctx, id)
	})
}

// Featured serves the featured artworks.
func (q *Queries) Featured(ctx context.Context) ([]Artwork, error) {
	key := keyRoot.Op("featured").Params(nil)
	return cache.Fetch(ctx, q.cache, key, q.ttl.ListTTL, func(ctx context.Context) ([]Artwork, error) {
		return q.svc.Featured(ctx)
	})
}

// ByCategory serves one category's artworks.
func (q *Queries) ByCategory(ctx context.Context, category Category) ([]Artwork, error) {
	key := keyRoot.Op("category").ID(string(category))
	return cache.Fetch(ctx, q.cache, key, q.ttl.ListTTL, func(ctx context.Context) ([]Artwork, error) {
		return q.svc.ByCategory(ctx, category)
	})
}

// Search serves search results, cached per query string.
func (q *Queries) Search(ctx context.Context, query string) ([]Artwork, error) {
	key := keyRoot.Op("search").Params(map[string]string{"q": query})
	return cache.Fetch(ctx, q.cache, key, q.ttl.SearchTTL, func(ctx context.Context) ([]Artwork, error) {
		return q.svc.Search(ctx, query)
	})
}

// ImagesSummary serves the derived image view for one artwork.
func (q *Queries) ImagesSummary(ctx context.Context, id string) (ImagesSummary, error) {
	return cache.Fetch(ctx, q.cache, imagesKey(id), q.ttl.ImagesTTL, func(ctx context.Context) (ImagesSummary, error) {
		images, err := q.svc.Images(ctx, id)
		if err != nil {
			return ImagesSummary{}, err
		}
		record := Artwork{Images: images}
		return SummaryOf(record), nil
	})
}

// Create submits a new artwork and seeds its cache entries.
func (q *Queries) Create(ctx context.Context, input CreateInput) (*Artwork, error) {
	record, err := q.svc.Create(ctx, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Artwork created successfully")
	return record, nil
}

// Update submits a full-record update and patches the cache with the result.
func (q *Queries) Update(ctx context.Context, id string, input UpdateInput) (*Artwork, error) {
	record, err := q.svc.Update(ctx, id, input)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Artwork updated successfully")
	return record, nil
}

// Delete removes an artwork and evicts everything cached about it.
func (q *Queries) Delete(ctx context.Context, id string) error {
	if err := q.svc.Delete(ctx, id); err != nil {
		q.notifier.Error(ctx, err)
		return err
	}
	q.cache.Invalidate(ctx, detailKey(id), imagesKey(id))
	q.staleListings(ctx)
	q.notifier.Success(ctx, "Artwork deleted")
	return nil
}

// AddImages attaches images and refreshes the cached record and summary from
// the returned parent record.
func (q *Queries) AddImages(ctx context.Context, id string, files []upload.File) (*Artwork, error) {
	record, err := q.svc.AddImages(ctx, id, files)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Images added")
	return record, nil
}

// RemoveImage detaches one image by its public identifier.
func (q *Queries) RemoveImage(ctx context.Context, id, publicID string) (*Artwork, error) {
	record, err := q.svc.RemoveImage(ctx, id, publicID)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Image removed")
	return record, nil
}

// SetPrimaryImage promotes one image to primary.
func (q *Queries) SetPrimaryImage(ctx context.Context, id, publicID string) (*Artwork, error) {
	record, err := q.svc.SetPrimaryImage(ctx, id, publicID)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyRecord(ctx, record)
	q.notifier.Success(ctx, "Primary image updated")
	return record, nil
}

// applyRecord is the shared success path: overwrite the detail entry with
// the server's record, recompute the images summary from it, and stale every
// listing-style entry so the next read refetches.
func (q *Queries) applyRecord(ctx context.Context, record *Artwork) {
	if record == nil || record.ID == "" {
		return
	}
	cache.Put(ctx, q.cache, detailKey(record.ID), q.ttl.DetailTTL, record)
	cache.Put(ctx, q.cache, imagesKey(record.ID), q.ttl.ImagesTTL, SummaryOf(*record))
	q.staleListings(ctx)
}

func (q *Queries) staleListings(ctx context.Context) {
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("list"))
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("featured"))
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("category"))
	q.cache.InvalidatePrefix(ctx, keyRoot.Op("search"))
}
