package persistence

import (
	"context"
	"sort"

	"github.com/grasdvirus/prime-panier/internal/domain/contact"
)

// MessageRepository implements contact.Repository on a DocumentStore
type MessageRepository struct {
	messages *Collection[contact.Message]
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(store DocumentStore) *MessageRepository {
	return &MessageRepository{messages: NewCollection[contact.Message](store, CollectionMessages)}
}

func (r *MessageRepository) FindAll(ctx context.Context) ([]contact.Message, error) {
	messages, err := r.messages.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*contact.Message, error) {
	return r.messages.Get(ctx, id)
}

func (r *MessageRepository) Create(ctx context.Context, m *contact.Message) error {
	return r.messages.Create(ctx, m.ID, m)
}

func (r *MessageRepository) Save(ctx context.Context, m *contact.Message) error {
	return r.messages.Update(ctx, m.ID, m)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return r.messages.Delete(ctx, id)
}

var _ contact.Repository = (*MessageRepository)(nil)
