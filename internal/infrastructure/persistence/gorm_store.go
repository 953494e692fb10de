package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/grasdvirus/prime-panier/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentModel is the row layout of the documents table
type DocumentModel struct {
	Collection string    `gorm:"type:varchar(64);primaryKey"`
	ID         string    `gorm:"type:varchar(128);primaryKey"`
	Position   int       `gorm:"not null"`
	Data       string    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

func (m *DocumentModel) toDocument() Document {
	return Document{ID: m.ID, Position: m.Position, Data: []byte(m.Data)}
}

// GormDocumentStore stores documents in a single relational table keyed by
// (collection, id). It runs on PostgreSQL in production and SQLite in tests.
type GormDocumentStore struct {
	db    *gorm.DB
	owner io.Closer
}

// GormStoreOption configures a GormDocumentStore
type GormStoreOption func(*GormDocumentStore)

// WithConnectionOwner makes Close release the given connection
func WithConnectionOwner(owner io.Closer) GormStoreOption {
	return func(s *GormDocumentStore) {
		s.owner = owner
	}
}

// NewGormDocumentStore creates a store on top of an open connection
func NewGormDocumentStore(db *gorm.DB, opts ...GormStoreOption) *GormDocumentStore {
	s := &GormDocumentStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormDocumentStore) List(ctx context.Context, collection string) ([]Document, error) {
	var models []DocumentModel
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("position ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(models))
	for i := range models {
		docs[i] = models[i].toDocument()
	}
	return docs, nil
}

func (s *GormDocumentStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, shared.ErrNotFound
		}
		return Document{}, err
	}
	return model.toDocument(), nil
}

func (s *GormDocumentStore) Create(ctx context.Context, collection string, doc Document) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DocumentModel{}).
			Where("collection = ? AND id = ?", collection, doc.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyExists
		}
		model := newDocumentModel(collection, doc, time.Now())
		return tx.Create(&model).Error
	})
}

func (s *GormDocumentStore) Put(ctx context.Context, collection string, doc Document) error {
	model := newDocumentModel(collection, doc, time.Now())
	return s.db.WithContext(ctx).Clauses(upsertClause()).Create(&model).Error
}

func (s *GormDocumentStore) Update(ctx context.Context, collection string, doc Document) error {
	result := s.db.WithContext(ctx).
		Model(&DocumentModel{}).
		Where("collection = ? AND id = ?", collection, doc.ID).
		Updates(map[string]any{
			"position":   doc.Position,
			"data":       string(doc.Data),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *GormDocumentStore) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *GormDocumentStore) Count(ctx context.Context, collection string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&DocumentModel{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return int(count), err
}

// Replace deletes the rows whose id is not part of docs and upserts the rest
// inside one transaction. A failure leaves the previous set untouched.
func (s *GormDocumentStore) Replace(ctx context.Context, collection string, docs []Document) error {
	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("collection = ?", collection)
		if len(docs) > 0 {
			ids := make([]string, len(docs))
			for i, doc := range docs {
				ids[i] = doc.ID
			}
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&DocumentModel{}).Error; err != nil {
			return fmt.Errorf("prune %s: %w", collection, err)
		}

		for _, doc := range docs {
			model := newDocumentModel(collection, doc, now)
			if err := tx.Clauses(upsertClause()).Create(&model).Error; err != nil {
				return fmt.Errorf("upsert %s/%s: %w", collection, doc.ID, err)
			}
		}
		return nil
	})
}

// Increment reads the row under a row lock, adds delta to the field and
// writes it back in the same transaction.
func (s *GormDocumentStore) Increment(ctx context.Context, collection, id, field string, delta int64) (Document, error) {
	var updated Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model DocumentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", collection, id).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		data, err := incrementField([]byte(model.Data), field, delta)
		if err != nil {
			return err
		}
		if err := tx.Model(&DocumentModel{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": string(data), "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		model.Data = string(data)
		updated = model.toDocument()
		return nil
	})
	return updated, err
}

func (s *GormDocumentStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection when the store owns it
func (s *GormDocumentStore) Close() error {
	if s.owner == nil {
		return nil
	}
	return s.owner.Close()
}

func newDocumentModel(collection string, doc Document, now time.Time) DocumentModel {
	data := string(doc.Data)
	if data == "" {
		data = "{}"
	}
	return DocumentModel{
		Collection: collection,
		ID:         doc.ID,
		Position:   doc.Position,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position", "data", "updated_at"}),
	}
}

var _ DocumentStore = (*GormDocumentStore)(nil)
