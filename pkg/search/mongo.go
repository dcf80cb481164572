package search

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore searches a MongoDB collection of locations.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database.collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// nameFilter matches names containing query, case-insensitively.
func nameFilter(query string) bson.M {
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
}

// Search returns locations whose name contains query, ordered by id.
func (s *MongoStore) Search(ctx context.Context, query string) ([]Location, error) {
	out := []Location{}
	if query == "" {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, nameFilter(query), options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed upserts locs by id and ensures the name index exists.
func (s *MongoStore) Seed(ctx context.Context, locs []Location) error {
	if len(locs) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(locs))
	for _, l := range locs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": l.ID}).
			SetReplacement(l).
			SetUpsert(true))
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return err
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}})
	return err
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
