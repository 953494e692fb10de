package persistence

import (
	"context"
	"encoding/json"
)

// Collection names of the persisted layout
const (
	CollectionProducts     = "products"
	CollectionSlides       = "slides"
	CollectionBento        = "bento"
	CollectionCollections  = "collections"
	CollectionInfoFeatures = "infoFeatures"
	CollectionOrders       = "orders"
	CollectionMessages     = "messages"
	CollectionSite         = "site"
)

// Singleton document ids inside CollectionSite
const (
	DocMarquee      = "marquee"
	DocSiteSettings = "siteSettings"
)

// Document is one JSON document of a collection. Position keeps the order in
// which a replaced set was submitted.
type Document struct {
	ID       string
	Position int
	Data     json.RawMessage
}

// DocumentStore is the storage contract shared by every backend.
// Not-found conditions are reported as shared.ErrNotFound.
type DocumentStore interface {
	// List returns the documents of a collection ordered by position, then id
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Create fails with shared.ErrAlreadyExists when the id is taken
	Create(ctx context.Context, collection string, doc Document) error
	// Put creates or overwrites a document
	Put(ctx context.Context, collection string, doc Document) error
	// Update overwrites an existing document
	Update(ctx context.Context, collection string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	Count(ctx context.Context, collection string) (int, error)
	// Replace makes the collection hold exactly docs in one atomic step.
	// Documents absent from docs are removed, the others are upserted.
	Replace(ctx context.Context, collection string, docs []Document) error
	// Increment atomically adds delta to a numeric top-level field
	Increment(ctx context.Context, collection, id, field string, delta int64) (Document, error)
	Ping(ctx context.Context) error
	Close() error
}
