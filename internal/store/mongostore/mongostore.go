// Package mongostore keeps each collection in its own MongoDB collection.
// ReplaceAll runs in a transaction, so the server must be a replica set.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

// Open connects to uri and uses the named database
func Open(ctx context.Context, uri, database string) (*store.Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return New(client, client.Database(database)), nil
}

// New builds a Store on an existing client and database
func New(client *mongo.Client, db *mongo.Database) *store.Store {
	return &store.Store{
		Users:          newCollection[models.User](client, db, store.UsersCollection),
		TravelRequests: newCollection[models.TravelRequest](client, db, store.TravelRequestsCollection),
		TravelGroups:   newCollection[models.TravelGroup](client, db, store.TravelGroupsCollection),
		GroupRequests:  newCollection[models.GroupRequest](client, db, store.GroupRequestsCollection),
		Backend:        backend{client: client},
	}
}

type backend struct {
	client *mongo.Client
}

func (b backend) Ping(ctx context.Context) error { return b.client.Ping(ctx, nil) }

func (b backend) Close() error {
	return b.client.Disconnect(context.Background())
}

type document[T store.Record] struct {
	ID       string `bson:"_id"`
	Position int64  `bson:"position"`
	Record   T      `bson:"record"`
}

type collection[T store.Record] struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func newCollection[T store.Record](client *mongo.Client, db *mongo.Database, name string) *collection[T] {
	return &collection[T]{client: client, coll: db.Collection(name)}
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []document[T]
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.coll.Name(), err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Record)
	}
	return out, nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var doc document[T]
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%s: %w", c.coll.Name(), id, err)
	}
	return doc.Record, true, nil
}

func (c *collection[T]) Put(ctx context.Context, rec T) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": rec.Key()}, bson.M{"$set": bson.M{"record": rec}})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", c.coll.Name(), rec.Key(), err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	position, err := c.nextPosition(ctx)
	if err != nil {
		return err
	}
	if _, err := c.coll.InsertOne(ctx, document[T]{ID: rec.Key(), Position: position, Record: rec}); err != nil {
		return fmt.Errorf("put %s/%s: %w", c.coll.Name(), rec.Key(), err)
	}
	return nil
}

func (c *collection[T]) nextPosition(ctx context.Context) (int64, error) {
	var last document[T]
	err := c.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("position %s: %w", c.coll.Name(), err)
	}
	return last.Position + 1, nil
}

func (c *collection[T]) ReplaceAll(ctx context.Context, recs []T) error {
	docs := make([]interface{}, 0, len(recs))
	for i, rec := range recs {
		docs = append(docs, document[T]{ID: rec.Key(), Position: int64(i + 1), Record: rec})
	}

	sess, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.coll.Name(), err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := c.coll.DeleteMany(sc, bson.M{}); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		return c.coll.InsertMany(sc, docs)
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection[T]) Remove(ctx context.Context, id string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("remove %s/%s: %w", c.coll.Name(), id, err)
	}
	return nil
}
