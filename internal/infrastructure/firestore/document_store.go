package firestoreinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/persistence"
)

// positionField holds persistence.Document.Position inside stored documents
const positionField = "_position"

// DocumentStore implements persistence.DocumentStore on Cloud Firestore.
// Each collection maps to a top-level Firestore collection.
type DocumentStore struct {
	client *firestore.Client
}

// NewDocumentStore wraps an open client
func NewDocumentStore(client *firestore.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]persistence.Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list %s: %w", collection, err)
	}

	docs := make([]persistence.Document, 0, len(snaps))
	for _, snap := range snaps {
		doc, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Position != docs[j].Position {
			return docs[i].Position < docs[j].Position
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (persistence.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return persistence.Document{}, mapError(err)
	}
	return fromSnapshot(snap)
}

func (s *DocumentStore) Create(ctx context.Context, collection string, doc persistence.Document) error {
	data, err := toFields(doc)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(collection).Doc(doc.ID).Create(ctx, data)
	return mapError(err)
}

func (s *DocumentStore) Put(ctx context.Context, collection string, doc persistence.Document) error {
	data, err := toFields(doc)
	if err != nil {
		return err
	}
	_, err = s.client.Collection(collection).Doc(doc.ID).Set(ctx, data)
	return mapError(err)
}

func (s *DocumentStore) Update(ctx context.Context, collection string, doc persistence.Document) error {
	data, err := toFields(doc)
	if err != nil {
		return err
	}
	ref := s.client.Collection(collection).Doc(doc.ID)
	return mapError(s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, data)
	}))
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	return mapError(err)
}

func (s *DocumentStore) Count(ctx context.Context, collection string) (int, error) {
	result, err := s.client.Collection(collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("firestore count %s: %w", collection, err)
	}
	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("firestore count %s: unexpected result type %T", collection, result["all"])
	}
	return int(value.GetIntegerValue()), nil
}

// Replace runs in a single Firestore transaction: all reads of the current
// set happen first, then the deletes and writes.
func (s *DocumentStore) Replace(ctx context.Context, collection string, docs []persistence.Document) error {
	fields := make(map[string]map[string]any, len(docs))
	for _, doc := range docs {
		data, err := toFields(doc)
		if err != nil {
			return err
		}
		fields[doc.ID] = data
	}

	col := s.client.Collection(collection)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		iter := tx.Documents(col)
		defer iter.Stop()

		var stale []*firestore.DocumentRef
		for {
			snap, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return fmt.Errorf("firestore read %s: %w", collection, err)
			}
			if _, keep := fields[snap.Ref.ID]; !keep {
				stale = append(stale, snap.Ref)
			}
		}

		for _, ref := range stale {
			if err := tx.Delete(ref); err != nil {
				return err
			}
		}
		for _, doc := range docs {
			if err := tx.Set(col.Doc(doc.ID), fields[doc.ID]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Increment uses the server-side increment transform, then reads the
// document back.
func (s *DocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) (persistence.Document, error) {
	ref := s.client.Collection(collection).Doc(id)
	_, err := ref.Update(ctx, []firestore.Update{{Path: field, Value: firestore.Increment(delta)}})
	if err != nil {
		return persistence.Document{}, mapError(err)
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		return persistence.Document{}, mapError(err)
	}
	return fromSnapshot(snap)
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(persistence.CollectionSite).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return s.client.Close()
}

func toFields(doc persistence.Document) (map[string]any, error) {
	data := map[string]any{}
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &data); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
		}
	}
	data[positionField] = int64(doc.Position)
	return data, nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (persistence.Document, error) {
	return fromFields(snap.Ref.ID, snap.Data())
}

func fromFields(id string, data map[string]any) (persistence.Document, error) {
	var position int
	switch v := data[positionField].(type) {
	case int64:
		position = int(v)
	case float64:
		position = int(v)
	}
	delete(data, positionField)

	raw, err := json.Marshal(data)
	if err != nil {
		return persistence.Document{}, fmt.Errorf("encode document %s: %w", id, err)
	}
	return persistence.Document{ID: id, Position: position, Data: raw}, nil
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.OK:
		return err
	case codes.NotFound:
		return shared.ErrNotFound
	case codes.AlreadyExists:
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

var _ persistence.DocumentStore = (*DocumentStore)(nil)
