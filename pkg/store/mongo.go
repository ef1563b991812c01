package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// Collection is the MongoDB collection holding routing records.
const Collection = "routes"

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

// MongoStore keeps records in a MongoDB collection, keyed by record id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the routes collection of database.
// The connection is verified with a ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "ping mongodb")
	}

	s := NewMongoStoreFromClient(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. Closing the store
// disconnects the client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(Collection),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := errs.ValidateRecordID(rec.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errs.ValidateRecordID(id); err != nil {
		return nil, err
	}
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return recs, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateRecordID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
