package upload

import (
	"context"
	"fmt"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

var keyRoot = cache.NewKey("upload")

// infoKey uses the encoded form of the public id so the key stays free of
// the slashes inside raw ids.
func infoKey(publicID string) cache.Key {
	return keyRoot.Op("info").ID(EncodePublicID(publicID))
}

// QueriesParams groups dependencies for the cache-backed upload layer.
type QueriesParams struct {
	Service  Service
	Cache    *cache.Cache
	TTL      config.CacheConfig
	Notifier notify.Notifier
}

// Queries binds the upload service to the cache. Image metadata is the only
// cached read; uploads seed it, delete evicts it.
type Queries struct {
	svc      Service
	cache    *cache.Cache
	ttl      config.CacheConfig
	notifier notify.Notifier
}

// NewQueries builds the cache-backed upload layer.
func NewQueries(params QueriesParams) (*Queries, error) {
	if params.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload service is required")
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

// ImageInfo serves one image's metadata and variant URLs, cached by id.
func (q *Queries) ImageInfo(ctx context.Context, publicID string) (*Image, error) {
	return cache.Fetch(ctx, q.cache, infoKey(publicID), q.ttl.ImagesTTL, func(ctx context.Context) (*Image, error) {
		return q.svc.ImageInfo(ctx, publicID)
	})
}

// UploadSingle stores one image and seeds its info entry.
func (q *Queries) UploadSingle(ctx context.Context, file File) (*Image, error) {
	image, err := q.svc.UploadSingle(ctx, file)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	q.applyImage(ctx, image)
	q.notifier.Success(ctx, "Image uploaded")
	return image, nil
}

// UploadMultiple stores a batch of images and seeds each info entry.
func (q *Queries) UploadMultiple(ctx context.Context, files []File) ([]Image, error) {
	images, err := q.svc.UploadMultiple(ctx, files)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	for i := range images {
		q.applyImage(ctx, &images[i])
	}
	q.notifier.Success(ctx, fmt.Sprintf("Uploaded %d images", len(images)))
	return images, nil
}

// UploadArtworkImages stores a batch grouped under an artwork's context.
func (q *Queries) UploadArtworkImages(ctx context.Context, files []File, artwork ArtworkContext) ([]Image, error) {
	images, err := q.svc.UploadArtworkImages(ctx, files, artwork)
	if err != nil {
		q.notifier.Error(ctx, err)
		return nil, err
	}
	for i := range images {
		q.applyImage(ctx, &images[i])
	}
	q.notifier.Success(ctx, fmt.Sprintf("Uploaded %d images", len(images)))
	return images, nil
}

// Delete removes one image and evicts its info entry.
func (q *Queries) Delete(ctx context.Context, publicID string) error {
	if err := q.svc.Delete(ctx, publicID); err != nil {
		q.notifier.Error(ctx, err)
		return err
	}
	q.cache.Invalidate(ctx, infoKey(publicID))
	q.notifier.Success(ctx, "Image deleted")
	return nil
}

func (q *Queries) applyImage(ctx context.Context, image *Image) {
	if image == nil || image.PublicID == "" {
		return
	}
	cache.Put(ctx, q.cache, infoKey(image.PublicID), q.ttl.ImagesTTL, image)
}
