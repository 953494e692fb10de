package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteStore(t *testing.T) DocumentStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would open a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&DocumentModel{}))
	return NewGormDocumentStore(db)
}

func newMemoryStore(t *testing.T) DocumentStore {
	return NewMemoryDocumentStore()
}

func doc(id string, payload string) Document {
	return Document{ID: id, Data: json.RawMessage(payload)}
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestDocumentStores(t *testing.T) {
	stores := map[string]func(t *testing.T) DocumentStore{
		"memory": newMemoryStore,
		"sqlite": newSQLiteStore,
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			runDocumentStoreContract(t, newStore)
		})
	}
}

func runDocumentStoreContract(t *testing.T, newStore func(t *testing.T) DocumentStore) {
	ctx := context.Background()

	t.Run("get missing document returns not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, CollectionProducts, "1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionOrders, doc("ord-1", `{"id":"ord-1","total":11000}`)))

		got, err := store.Get(ctx, CollectionOrders, "ord-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"ord-1","total":11000}`, string(got.Data))
	})

	t.Run("create rejects taken id", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionOrders, doc("ord-1", `{}`)))
		err := store.Create(ctx, CollectionOrders, doc("ord-1", `{}`))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("update requires existing document", func(t *testing.T) {
		store := newStore(t)
		err := store.Update(ctx, CollectionOrders, doc("missing", `{}`))
		assert.ErrorIs(t, err, shared.ErrNotFound)

		require.NoError(t, store.Create(ctx, CollectionOrders, doc("ord-1", `{"status":"pending"}`)))
		require.NoError(t, store.Update(ctx, CollectionOrders, doc("ord-1", `{"status":"shipped"}`)))
		got, err := store.Get(ctx, CollectionOrders, "ord-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"shipped"}`, string(got.Data))
	})

	t.Run("put creates and overwrites", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, CollectionSite, doc(DocMarquee, `{"messages":["a"]}`)))
		require.NoError(t, store.Put(ctx, CollectionSite, doc(DocMarquee, `{"messages":["b"]}`)))

		got, err := store.Get(ctx, CollectionSite, DocMarquee)
		require.NoError(t, err)
		assert.JSONEq(t, `{"messages":["b"]}`, string(got.Data))
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionMessages, doc("m1", `{}`)))
		require.NoError(t, store.Delete(ctx, CollectionMessages, "m1"))
		assert.ErrorIs(t, store.Delete(ctx, CollectionMessages, "m1"), shared.ErrNotFound)

		n, err := store.Count(ctx, CollectionMessages)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionSlides, doc("1", `{}`)))
		require.NoError(t, store.Create(ctx, CollectionBento, doc("1", `{}`)))

		n, err := store.Count(ctx, CollectionSlides)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = store.Get(ctx, CollectionCollections, "1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("replace keeps exactly the submitted set in order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Replace(ctx, CollectionSlides, []Document{
			{ID: "a", Position: 0, Data: json.RawMessage(`{"v":1}`)},
			{ID: "b", Position: 1, Data: json.RawMessage(`{"v":2}`)},
			{ID: "c", Position: 2, Data: json.RawMessage(`{"v":3}`)},
		}))

		require.NoError(t, store.Replace(ctx, CollectionSlides, []Document{
			{ID: "c", Position: 0, Data: json.RawMessage(`{"v":30}`)},
			{ID: "d", Position: 1, Data: json.RawMessage(`{"v":4}`)},
			{ID: "a", Position: 2, Data: json.RawMessage(`{"v":10}`)},
		}))

		docs, err := store.List(ctx, CollectionSlides)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "d", "a"}, ids(docs))
		assert.JSONEq(t, `{"v":30}`, string(docs[0].Data))
	})

	t.Run("replace with empty set clears the collection", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Replace(ctx, CollectionBento, []Document{doc("x", `{}`)}))
		require.NoError(t, store.Replace(ctx, CollectionBento, nil))

		docs, err := store.List(ctx, CollectionBento)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("increment adds to numeric field", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionProducts, doc("7", `{"id":7,"name":"Sac","likes":2}`)))

		updated, err := store.Increment(ctx, CollectionProducts, "7", "likes", 1)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"name":"Sac","likes":3}`, string(updated.Data))
	})

	t.Run("increment missing field starts at zero", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionProducts, doc("7", `{"id":7}`)))

		updated, err := store.Increment(ctx, CollectionProducts, "7", "likes", 1)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"likes":1}`, string(updated.Data))
	})

	t.Run("increment missing document returns not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Increment(ctx, CollectionProducts, "404", "likes", 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Create(ctx, CollectionProducts, doc("1", `{"likes":0}`)))

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Increment(ctx, CollectionProducts, "1", "likes", 1)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := store.Get(ctx, CollectionProducts, "1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"likes":20}`, string(got.Data))
	})
}

func TestIncrementField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", `{"likes":4}`, `{"likes":5}`},
		{"float truncated", `{"likes":4.0}`, `{"likes":5}`},
		{"string value reset", `{"likes":"many"}`, `{"likes":1}`},
		{"null value", `{"likes":null}`, `{"likes":1}`},
		{"missing", `{"name":"x"}`, `{"name":"x","likes":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := incrementField([]byte(tt.input), "likes", 1)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}

	_, err := incrementField([]byte(`[1,2]`), "likes", 1)
	assert.Error(t, err)
}
