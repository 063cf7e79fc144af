// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vyrodovalexey/catalog-gateway/internal/model"
)

// Store errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record ID")
	ErrNilRecord = errors.New("record cannot be nil")
)

// Query describes the constraints applied by List: an equality filter on
// category, an inclusive lower bound on price, an optional ascending sort
// by price, and an optional projection of the returned fields.
type Query struct {
	// Category filters records to an exact category match when non-empty.
	Category string

	// MinPrice filters records to price >= *MinPrice when set. A NaN
	// bound matches no record.
	MinPrice *float64

	// SortByPrice orders results by ascending price. When unset the
	// result order is the store's default and must not be relied on.
	SortByPrice bool

	// Fields projects the returned documents to the named fields plus
	// identity. Nil returns full documents.
	Fields []string
}

// Store defines the interface for record storage operations.
type Store interface {
	// List returns the records matching the query.
	List(ctx context.Context, q Query) ([]model.Document, error)

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (model.Document, error)

	// Create inserts a new record and returns the stored document with
	// its generated ID.
	Create(ctx context.Context, rec *model.Record) (model.Document, error)

	// Replace overwrites the name, price, and category fields of an
	// existing record and returns the updated document. Other fields on
	// the document are left untouched.
	Replace(ctx context.Context, id string, rec *model.Record) (model.Document, error)

	// Patch merges the given fields into an existing record and returns
	// the updated document.
	Patch(ctx context.Context, id string, fields map[string]any) (model.Document, error)

	// Delete removes a record by its ID.
	Delete(ctx context.Context, id string) error
}

// ValidID reports whether id is a well-formed record identifier
// (a 24-character hexadecimal ObjectID).
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
