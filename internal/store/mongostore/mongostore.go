// Package mongostore adapts a MongoDB database to the store capability
// interface. It is intentionally thin: repositories own validation,
// ordering, and error semantics beyond NotFound mapping.
package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/chat-data/internal/apperr"
)

type Store struct {
	db *mongo.Database
}

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// coll maps a namespace to a collection. Composite subcollection paths
// (chats/{id}/messages) become dotted collection names, one collection per
// parent document, preserving the per-parent namespace contract.
func (s *Store) coll(namespace string) *mongo.Collection {
	return s.db.Collection(strings.ReplaceAll(namespace, "/", "."))
}

func (s *Store) Get(ctx context.Context, namespace, id string) (bson.M, error) {
	var doc bson.M
	err := s.coll(namespace).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFoundf("%s/%s", namespace, id)
		}
		return nil, err
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, namespace, id string, doc bson.M) error {
	doc["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll(namespace).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func (s *Store) Patch(ctx context.Context, namespace, id string, partial bson.M) error {
	res, err := s.coll(namespace).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": partial})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("%s/%s", namespace, id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, namespace, id string) error {
	res, err := s.coll(namespace).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("%s/%s", namespace, id)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, namespace string) ([]bson.M, error) {
	return s.find(ctx, namespace, bson.M{})
}

func (s *Store) QueryEqual(ctx context.Context, namespace, field string, value any) ([]bson.M, error) {
	return s.find(ctx, namespace, bson.M{field: value})
}

// QueryContains relies on Mongo's array-field equality, which matches when
// the array contains the value.
func (s *Store) QueryContains(ctx context.Context, namespace, field string, value any) ([]bson.M, error) {
	return s.find(ctx, namespace, bson.M{field: value})
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	_, err := s.coll(namespace).DeleteMany(ctx, bson.M{})
	return err
}

func (s *Store) NewID() string {
	return uuid.NewString()
}

func (s *Store) find(ctx context.Context, namespace string, filter bson.M) ([]bson.M, error) {
	cur, err := s.coll(namespace).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []bson.M
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}
