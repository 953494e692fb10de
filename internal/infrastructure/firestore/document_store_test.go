package firestoreinfra

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/persistence"
)

func TestFieldsRoundTrip(t *testing.T) {
	fields, err := toFields(persistence.Document{
		ID:       "3",
		Position: 2,
		Data:     []byte(`{"id":3,"title":"Soldes"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fields[positionField])

	doc, err := fromFields("3", fields)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Position)
	assert.JSONEq(t, `{"id":3,"title":"Soldes"}`, string(doc.Data))
}

func TestToFields_RejectsNonObject(t *testing.T) {
	_, err := toFields(persistence.Document{ID: "x", Data: []byte(`[1]`)})
	assert.Error(t, err)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(status.Error(codes.NotFound, "missing")), shared.ErrNotFound)
	assert.ErrorIs(t, mapError(status.Error(codes.AlreadyExists, "taken")), shared.ErrAlreadyExists)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

// TestDocumentStore_Emulator runs against the Firestore emulator when
// FIRESTORE_EMULATOR_HOST is set.
func TestDocumentStore_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	client, err := NewClient(ctx, config.FirestoreConfig{ProjectID: "prime-panier-test"}, zap.NewNop())
	require.NoError(t, err)
	store := NewDocumentStore(client)
	defer store.Close()

	col := "test_" + t.Name()
	require.NoError(t, store.Replace(ctx, col, []persistence.Document{
		{ID: "b", Position: 0, Data: []byte(`{"likes":1}`)},
		{ID: "a", Position: 1, Data: []byte(`{"likes":0}`)},
	}))

	docs, err := store.List(ctx, col)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)

	updated, err := store.Increment(ctx, col, "a", "likes", 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"likes":1}`, string(updated.Data))

	_, err = store.Get(ctx, col, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, store.Replace(ctx, col, nil))
	n, err := store.Count(ctx, col)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
