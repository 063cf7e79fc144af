package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vyrodovalexey/catalog-gateway/internal/model"
)

// MemoryStore implements Store with in-memory storage. IDs share the
// ObjectID hex format with MongoStore so the ID validity predicate is
// uniform across backends.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]model.Document),
	}
}

// List returns the records matching the query.
func (s *MemoryStore) List(ctx context.Context, q Query) ([]model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list records: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if matches(doc, q) {
			matched = append(matched, doc)
		}
	}

	// Sort on the stored document, then project, so a projection that
	// drops price does not break the ordering.
	if q.SortByPrice {
		sort.SliceStable(matched, func(i, j int) bool {
			pi, _ := priceOf(matched[i])
			pj, _ := priceOf(matched[j])
			return pi < pj
		})
	}

	docs := make([]model.Document, 0, len(matched))
	for _, doc := range matched {
		docs = append(docs, project(doc, q.Fields))
	}

	return docs, nil
}

// Get retrieves a record by its ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get record: %w", ctx.Err())
	default:
	}

	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, ErrNotFound
	}

	return clone(doc), nil
}

// Create inserts a new record and returns the stored document with its
// generated ID.
func (s *MemoryStore) Create(ctx context.Context, rec *model.Record) (model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create record: %w", ctx.Err())
	default:
	}

	if rec == nil {
		return nil, fmt.Errorf("create record: %w", ErrNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := rec.Document()
	doc[model.FieldID] = primitive.NewObjectID().Hex()

	s.docs[doc.ID()] = doc

	return clone(doc), nil
}

// Replace overwrites the name, price, and category fields of an existing
// record; other fields on the document are left untouched.
func (s *MemoryStore) Replace(ctx context.Context, id string, rec *model.Record) (model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("replace record: %w", ctx.Err())
	default:
	}

	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	if rec == nil {
		return nil, fmt.Errorf("replace record: %w", ErrNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.docs[id]
	if !exists {
		return nil, ErrNotFound
	}

	updated := clone(existing)
	updated[model.FieldName] = rec.Name
	updated[model.FieldPrice] = rec.Price
	updated[model.FieldCategory] = rec.Category

	s.docs[id] = updated

	return clone(updated), nil
}

// Patch merges the given fields into an existing record.
func (s *MemoryStore) Patch(ctx context.Context, id string, fields map[string]any) (model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("patch record: %w", ctx.Err())
	default:
	}

	if !ValidID(id) {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.docs[id]
	if !exists {
		return nil, ErrNotFound
	}

	updated := clone(existing)
	for k, v := range fields {
		if k == model.FieldID {
			continue
		}
		updated[k] = v
	}

	s.docs[id] = updated

	return clone(updated), nil
}

// Delete removes a record by its ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete record: %w", ctx.Err())
	default:
	}

	if !ValidID(id) {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return ErrNotFound
	}

	delete(s.docs, id)

	return nil
}

// matches reports whether the document satisfies the query filter.
// Comparisons against a NaN bound are false, so a NaN MinPrice matches
// no document.
func matches(doc model.Document, q Query) bool {
	if q.Category != "" {
		category, ok := doc[model.FieldCategory].(string)
		if !ok || category != q.Category {
			return false
		}
	}

	if q.MinPrice != nil {
		price, ok := priceOf(doc)
		if !ok || !(price >= *q.MinPrice) {
			return false
		}
	}

	return true
}

// priceOf extracts the numeric price from a document.
func priceOf(doc model.Document) (float64, bool) {
	switch v := doc[model.FieldPrice].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// project returns a copy of the document restricted to the named fields
// plus identity. A nil field list returns the full document.
func project(doc model.Document, fields []string) model.Document {
	if len(fields) == 0 {
		return clone(doc)
	}

	projected := make(model.Document, len(fields)+1)
	if id, exists := doc[model.FieldID]; exists {
		projected[model.FieldID] = id
	}
	for _, f := range fields {
		if v, exists := doc[f]; exists {
			projected[f] = v
		}
	}

	return projected
}

// clone returns a shallow copy so callers cannot mutate stored documents.
func clone(doc model.Document) model.Document {
	copied := make(model.Document, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	return copied
}
