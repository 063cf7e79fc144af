// Package model defines data structures used throughout the application.
package model

import "errors"

// Validation errors for record payloads.
var (
	ErrMissingFields = errors.New("name, price, category are required")
	ErrInvalidTypes  = errors.New("invalid data types")
)

// Well-known document field names.
const (
	FieldID       = "_id"
	FieldName     = "name"
	FieldPrice    = "price"
	FieldCategory = "category"
)

// Document is a stored record as the collection holds it: the identity
// under "_id" plus arbitrary fields. The store enforces no schema, so
// documents returned from list operations may carry any subset of
// fields depending on the requested projection.
type Document map[string]any

// ID returns the document identity, or the empty string if absent.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Record is a validated create/replace payload holding the three
// required fields.
type Record struct {
	Name     string
	Price    float64
	Category string
}

// RecordFromBody validates a decoded JSON body against the required
// field set and returns the typed payload. Presence is checked before
// types: an absent, null, or empty name/category/price reports
// ErrMissingFields, a present field of the wrong type reports
// ErrInvalidTypes. JSON numbers decode as float64.
func RecordFromBody(body map[string]any) (*Record, error) {
	name, hasName := body[FieldName]
	price, hasPrice := body[FieldPrice]
	category, hasCategory := body[FieldCategory]

	if !hasName || name == nil || name == "" ||
		!hasPrice || price == nil ||
		!hasCategory || category == nil || category == "" {
		return nil, ErrMissingFields
	}

	nameStr, nameOK := name.(string)
	categoryStr, categoryOK := category.(string)
	priceNum, priceOK := price.(float64)

	if !nameOK || !categoryOK || !priceOK {
		return nil, ErrInvalidTypes
	}

	return &Record{
		Name:     nameStr,
		Price:    priceNum,
		Category: categoryStr,
	}, nil
}

// Document returns the record as a storable document without identity.
func (r *Record) Document() Document {
	return Document{
		FieldName:     r.Name,
		FieldPrice:    r.Price,
		FieldCategory: r.Category,
	}
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InfoResponse is the JSON body returned by the root endpoint.
type InfoResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}
