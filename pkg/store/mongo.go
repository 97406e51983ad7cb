package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paiv/icfpc2023/pkg/httputil"
	"github.com/paiv/icfpc2023/pkg/problem"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "stageplace"

const mongoCollection = "problems"

// MongoStore keeps one document per problem, keyed by problem ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	ping := func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return &httputil.RetryableError{Err: err}
		}
		return nil
	}
	if err := httputil.RetryWithBackoff(ctx, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoStoreFromClient(client, database), nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
		now:    time.Now,
	}
}

func (s *MongoStore) Get(ctx context.Context, pid int) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": pid}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %d: %w", pid, err)
	}
	return &rec, nil
}

func (s *MongoStore) Save(ctx context.Context, pid int, sol *problem.Solution, runID string) error {
	set := bson.M{
		"run_id":     runID,
		"score":      sol.Score,
		"solution":   sol,
		"updated_at": s.now(),
	}
	return s.upsert(ctx, pid, bson.M{"$set": set})
}

func (s *MongoStore) Touch(ctx context.Context, pid int) error {
	filter := bson.M{"_id": pid, "solution": bson.M{"$exists": true}}
	_, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"updated_at": s.now()}})
	if err != nil {
		return fmt.Errorf("touch problem %d: %w", pid, err)
	}
	return nil
}

func (s *MongoStore) SetSubmission(ctx context.Context, pid int, submissionID string) error {
	set := bson.M{"submission_id": submissionID, "submitted_at": s.now()}
	return s.upsert(ctx, pid, bson.M{"$set": set})
}

func (s *MongoStore) SetVerified(ctx context.Context, pid int, score int64) error {
	return s.upsert(ctx, pid, bson.M{
		"$set":   bson.M{"verified": score},
		"$unset": bson.M{"submission_id": "", "submitted_at": ""},
	})
}

func (s *MongoStore) List(ctx context.Context) ([]*Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	var records []*Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	return records, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) upsert(ctx context.Context, pid int, update bson.M) error {
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": pid}, update, opts); err != nil {
		return fmt.Errorf("update problem %d: %w", pid, err)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
