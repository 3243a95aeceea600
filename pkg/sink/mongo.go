package sink

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	perrors "github.com/matzehuels/passview/pkg/errors"
)

const (
	mongoDefaultDatabase = "passview"
	mongoCollection      = "artifacts"
)

// artifactDoc is the stored document shape.
type artifactDoc struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	Size      int       `bson:"size"`
	CreatedAt time.Time `bson:"created_at"`
}

// Mongo stores artifacts as documents in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to the MongoDB deployment named by a mongodb:// URI.
// The database is taken from the URI path and defaults to "passview".
func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	db, err := mongoDatabase(uri)
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "mongo: connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "mongo: ping")
	}
	return NewMongoWithClient(client, db), nil
}

// NewMongoWithClient wraps an existing client. The sink owns the client and
// disconnects it on Close.
func NewMongoWithClient(client *mongo.Client, database string) *Mongo {
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}
}

func mongoDatabase(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", perrors.Wrap(perrors.ErrCodeConfig, err, "parse mongo uri")
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db, nil
	}
	return mongoDefaultDatabase, nil
}

// Backend implements Sink.
func (m *Mongo) Backend() string { return "mongo" }

// Put upserts the artifact document.
func (m *Mongo) Put(ctx context.Context, name string, data []byte) error {
	doc := artifactDoc{ID: name, Data: data, Size: len(data), CreatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	return record(ctx, m.Backend(), name, len(data), err)
}

// Get returns the stored artifact.
func (m *Mongo) Get(ctx context.Context, name string) ([]byte, error) {
	var doc artifactDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(m.Backend(), name)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "mongo: get %s", name)
	}
	return doc.Data, nil
}

// List returns all artifact names in lexical order.
func (m *Mongo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "mongo: list")
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeSink, err, "mongo: list")
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.ID
	}
	return names, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

var _ Sink = (*Mongo)(nil)
