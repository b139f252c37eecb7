package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "graphlive"
	DefaultCollection = "scenes"
)

// MongoStore keeps one document per scene, keyed by scene ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri and verifies the connection. An empty
// database name selects [DefaultDatabase].
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := NewMongoStoreFromClient(client, database)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. Close does not
// disconnect a client the store did not create.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	if database == "" {
		database = DefaultDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, sc *scene.Scene) (string, error) {
	if err := prepare(sc); err != nil {
		return "", err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sc.ID}, sc, opts); err != nil {
		return "", fmt.Errorf("save scene %s: %w", sc.ID, err)
	}
	return sc.ID, nil
}

// Load implements Store.
func (s *MongoStore) Load(ctx context.Context, id string) (*scene.Scene, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var sc scene.Scene
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", id, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// summaryDoc is the projection List reads.
type summaryDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Nodes     int       `bson:"node_count"`
	Edges     int       `bson:"edge_count"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// List implements Store. Element counts are computed by the server.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"name":       1,
			"updated_at": 1,
			"node_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$nodes", bson.A{}}}},
			"edge_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$edges", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = Summary{ID: d.ID, Name: d.Name, Nodes: d.Nodes, Edges: d.Edges, UpdatedAt: d.UpdatedAt.UTC()}
	}
	return out, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete scene %s", id)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
