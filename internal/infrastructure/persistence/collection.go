package persistence

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed view over one collection of a DocumentStore
type Collection[T any] struct {
	store DocumentStore
	name  string
}

// NewCollection binds a collection name to a document type
func NewCollection[T any](store DocumentStore, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

// All decodes every document in store order
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	docs, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, doc.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Get decodes a single document
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

func (c *Collection[T]) Create(ctx context.Context, id string, item *T) error {
	doc, err := c.encode(id, 0, item)
	if err != nil {
		return err
	}
	return c.store.Create(ctx, c.name, doc)
}

func (c *Collection[T]) Put(ctx context.Context, id string, item *T) error {
	doc, err := c.encode(id, 0, item)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, c.name, doc)
}

func (c *Collection[T]) Update(ctx context.Context, id string, item *T) error {
	doc, err := c.encode(id, 0, item)
	if err != nil {
		return err
	}
	return c.store.Update(ctx, c.name, doc)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx, c.name)
}

// ReplaceAll stores items as the complete content of the collection,
// keeping their order.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T, key func(T) string) error {
	docs := make([]Document, 0, len(items))
	for i := range items {
		doc, err := c.encode(key(items[i]), i, &items[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if err := c.store.Replace(ctx, c.name, docs); err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	return nil
}

// Increment adds delta to a numeric field and returns the updated item
func (c *Collection[T]) Increment(ctx context.Context, id, field string, delta int64) (*T, error) {
	doc, err := c.store.Increment(ctx, c.name, id, field, delta)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

func (c *Collection[T]) encode(id string, position int, item *T) (Document, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s/%s: %w", c.name, id, err)
	}
	return Document{ID: id, Position: position, Data: data}, nil
}

func (c *Collection[T]) decode(doc Document) (*T, error) {
	var item T
	if err := json.Unmarshal(doc.Data, &item); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, doc.ID, err)
	}
	return &item, nil
}
