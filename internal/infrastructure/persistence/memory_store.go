package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
)

// MemoryDocumentStore keeps documents in process memory. It backs local
// development (storage.driver=memory) and tests.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]memoryDoc
}

type memoryDoc struct {
	position int
	data     []byte
}

// NewMemoryDocumentStore creates an empty store
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string]map[string]memoryDoc)}
}

func (s *MemoryDocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		id  string
		doc memoryDoc
	}
	entries := make([]entry, 0, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		entries = append(entries, entry{id: id, doc: doc})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].doc.position != entries[j].doc.position {
			return entries[i].doc.position < entries[j].doc.position
		}
		return entries[i].id < entries[j].id
	})

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, Document{ID: e.id, Position: e.doc.position, Data: cloneBytes(e.doc.data)})
	}
	return docs, nil
}

func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return Document{}, shared.ErrNotFound
	}
	return Document{ID: id, Position: doc.position, Data: cloneBytes(doc.data)}, nil
}

func (s *MemoryDocumentStore) Create(ctx context.Context, collection string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][doc.ID]; ok {
		return shared.ErrAlreadyExists
	}
	s.putLocked(collection, doc)
	return nil
}

func (s *MemoryDocumentStore) Put(ctx context.Context, collection string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putLocked(collection, doc)
	return nil
}

func (s *MemoryDocumentStore) Update(ctx context.Context, collection string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][doc.ID]; !ok {
		return shared.ErrNotFound
	}
	s.putLocked(collection, doc)
	return nil
}

func (s *MemoryDocumentStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryDocumentStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func (s *MemoryDocumentStore) Replace(ctx context.Context, collection string, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[collection] = make(map[string]memoryDoc, len(docs))
	for _, doc := range docs {
		s.putLocked(collection, doc)
	}
	return nil
}

func (s *MemoryDocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return Document{}, shared.ErrNotFound
	}
	data, err := incrementField(doc.data, field, delta)
	if err != nil {
		return Document{}, err
	}
	doc.data = data
	s.collections[collection][id] = doc
	return Document{ID: id, Position: doc.position, Data: cloneBytes(data)}, nil
}

func (s *MemoryDocumentStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryDocumentStore) Close() error { return nil }

func (s *MemoryDocumentStore) putLocked(collection string, doc Document) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]memoryDoc)
	}
	s.collections[collection][doc.ID] = memoryDoc{
		position: doc.Position,
		data:     cloneBytes(doc.Data),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var _ DocumentStore = (*MemoryDocumentStore)(nil)
