package wizard

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository keeps state in a collection with a TTL index on expires_at
type MongoRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

var _ Repository = (*MongoRepository)(nil)

type mongoState struct {
	Identity  int64     `bson:"_id"`
	State     string    `bson:"state"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// NewMongoRepository wraps collection. ttl <= 0 keeps state for a year.
func NewMongoRepository(collection *mongo.Collection, ttl time.Duration) *MongoRepository {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &MongoRepository{collection: collection, ttl: ttl, now: time.Now}
}

// EnsureIndexes creates the TTL index. Mongo sweeps expired documents about once a
// minute, so Load also filters on expires_at.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (r *MongoRepository) Load(ctx context.Context, identity int64) (*State, error) {
	var doc mongoState
	err := r.collection.FindOne(ctx, bson.M{
		"_id":        identity,
		"expires_at": bson.M{"$gt": r.now()},
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal([]byte(doc.State), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) Save(ctx context.Context, identity int64, s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	doc := mongoState{Identity: identity, State: string(raw), ExpiresAt: r.now().Add(r.ttl)}
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": identity}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepository) Delete(ctx context.Context, identity int64) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": identity})
	return err
}
