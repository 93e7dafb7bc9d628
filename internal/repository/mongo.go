package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Shared helpers for the collection-backed repositories.

var (
	_ UserRepository                = (*UserRepo)(nil)
	_ MessageRepository             = (*MessageRepo)(nil)
	_ ProjectRepository             = (*ProjectRepo)(nil)
	_ SkillRepository               = (*SkillRepo)(nil)
	_ SoftwareApplicationRepository = (*SoftwareApplicationRepo)(nil)
	_ TimeLineRepository            = (*TimeLineRepo)(nil)
)

var (
	byInsertion = options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
)

func objectID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, ErrNotFound
	}
	return id, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, hex string) (*T, error) {
	id, err := objectID(hex)
	if err != nil {
		return nil, err
	}
	return findOne[T](ctx, coll, bson.M{"_id": id})
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, opts *options.FindOptionsBuilder) ([]T, error) {
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id bson.ObjectID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, hex string) error {
	id, err := objectID(hex)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// takeByID deletes a document and returns it so callers can release the
// remote assets it referenced.
func takeByID[T any](ctx context.Context, coll *mongo.Collection, hex string) (*T, error) {
	id, err := objectID(hex)
	if err != nil {
		return nil, err
	}
	var out T
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
