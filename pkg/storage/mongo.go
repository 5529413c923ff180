package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/habitmosaic/pkg/chain"
)

const (
	defaultMongoDatabase = "habitmosaic"
	mongoCollection      = "chains"
)

// MongoStore keeps one document per chain, keyed by the chain ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to the MongoDB deployment at url and uses the chains
// collection of database (empty means "habitmosaic").
func OpenMongo(ctx context.Context, url, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Backend() string { return "mongo" }

func (s *MongoStore) Get(ctx context.Context, id string) (*chain.Chain, error) {
	var c chain.Chain
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, chain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find chain: %w", err)
	}
	normalize(&c)
	return &c, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*chain.Chain, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find chains: %w", err)
	}
	var out []*chain.Chain
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode chains: %w", err)
	}
	for _, c := range out {
		normalize(c)
	}
	return out, nil
}

func (s *MongoStore) Put(ctx context.Context, c *chain.Chain) error {
	if err := validateID(c.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert chain: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete chain: %w", err)
	}
	if res.DeletedCount == 0 {
		return chain.ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// normalize restores invariants that BSON does not carry: a non-nil day
// set and UTC timestamps.
func normalize(c *chain.Chain) {
	if c.Days == nil {
		c.Days = map[string]bool{}
	}
	c.StartDate = c.StartDate.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if c.EndDate != nil {
		end := c.EndDate.UTC()
		c.EndDate = &end
	}
}

var _ chain.Store = (*MongoStore)(nil)
