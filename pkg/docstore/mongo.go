package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fwerrors "github.com/framewright/framewright/pkg/errors"
)

// mongoDocument is the stored shape of one document. Data holds the
// encoded JSON verbatim.
type mongoDocument struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps one collection document per framewright document.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri. The driver connects lazily, so the
// server is pinged before returning.
func NewMongoStore(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	if err := fwerrors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout).SetServerSelectionTimeout(timeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fwerrors.Wrap(fwerrors.ErrCodeInvalidConfig, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storageErr("mongo", "ping", database, err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}, nil
}

// Kind returns "mongo".
func (m *MongoStore) Kind() string { return "mongo" }

// Load finds the document by _id.
func (m *MongoStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	var doc mongoDocument
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("mongo", "load", id, err)
	}
	return []byte(doc.Data), nil
}

// Save upserts the document.
func (m *MongoStore) Save(ctx context.Context, id string, data []byte) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	doc := mongoDocument{ID: id, Data: string(data), UpdatedAt: m.now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr("mongo", "save", id, err)
	}
	return nil
}

// Delete removes the document.
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storageErr("mongo", "delete", id, err)
	}
	return nil
}

// List returns all _id values sorted ascending.
func (m *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr("mongo", "list", m.coll.Name(), err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("mongo", "list", m.coll.Name(), err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
