package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vyrodovalexey/catalog-gateway/internal/model"
)

// MongoStore implements Store backed by a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection with a ping,
// and returns a store over the given database and collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying MongoDB client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting from mongodb: %w", err)
	}
	return nil
}

// List returns the records matching the query.
func (s *MongoStore) List(ctx context.Context, q Query) ([]model.Document, error) {
	opts := options.Find()
	if q.SortByPrice {
		opts.SetSort(bson.D{{Key: model.FieldPrice, Value: 1}})
	}
	if len(q.Fields) > 0 {
		projection := bson.M{}
		for _, f := range q.Fields {
			projection[f] = 1
		}
		opts.SetProjection(projection)
	}

	cursor, err := s.coll.Find(ctx, listFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := make([]model.Document, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("list records: decoding document: %w", err)
		}
		docs = append(docs, docFromBSON(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return docs, nil
}

// Get retrieves a record by its ID.
func (s *MongoStore) Get(ctx context.Context, id string) (model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var raw bson.M
	err = s.coll.FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return docFromBSON(raw), nil
}

// Create inserts a new record and returns the stored document with its
// generated ID.
func (s *MongoStore) Create(ctx context.Context, rec *model.Record) (model.Document, error) {
	if rec == nil {
		return nil, fmt.Errorf("create record: %w", ErrNilRecord)
	}

	result, err := s.coll.InsertOne(ctx, bson.M{
		model.FieldName:     rec.Name,
		model.FieldPrice:    rec.Price,
		model.FieldCategory: rec.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("create record: unexpected inserted ID type %T", result.InsertedID)
	}

	doc := rec.Document()
	doc[model.FieldID] = oid.Hex()

	return doc, nil
}

// Replace overwrites the name, price, and category fields of an existing
// record; other fields on the document are left untouched.
func (s *MongoStore) Replace(ctx context.Context, id string, rec *model.Record) (model.Document, error) {
	if rec == nil {
		return nil, fmt.Errorf("replace record: %w", ErrNilRecord)
	}

	return s.update(ctx, id, bson.M{
		model.FieldName:     rec.Name,
		model.FieldPrice:    rec.Price,
		model.FieldCategory: rec.Category,
	}, "replace record")
}

// Patch merges the given fields into an existing record.
func (s *MongoStore) Patch(ctx context.Context, id string, fields map[string]any) (model.Document, error) {
	set := bson.M{}
	for k, v := range fields {
		if k == model.FieldID {
			continue
		}
		set[k] = v
	}

	// A patch that only named the identity field leaves nothing to set;
	// an empty $set is rejected by the server.
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	return s.update(ctx, id, set, "patch record")
}

// Delete removes a record by its ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// update applies a $set of the given fields to the record with the given
// ID and returns the updated document.
func (s *MongoStore) update(ctx context.Context, id string, set bson.M, operation string) (model.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{model.FieldID: oid},
		bson.M{"$set": set},
		opts,
	).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	return docFromBSON(raw), nil
}

// listFilter translates a Query into a MongoDB filter document.
func listFilter(q Query) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter[model.FieldCategory] = q.Category
	}
	if q.MinPrice != nil {
		filter[model.FieldPrice] = bson.M{"$gte": *q.MinPrice}
	}
	return filter
}

// docFromBSON converts a decoded BSON document to the wire document
// shape, rendering ObjectID values as 24-character hex strings.
func docFromBSON(raw bson.M) model.Document {
	doc := make(model.Document, len(raw))
	for k, v := range raw {
		if oid, ok := v.(primitive.ObjectID); ok {
			doc[k] = oid.Hex()
			continue
		}
		doc[k] = v
	}
	return doc
}
