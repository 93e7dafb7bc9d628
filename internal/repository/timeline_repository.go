package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

type TimeLineRepo struct{ coll *mongo.Collection }

func NewTimeLineRepo(db *mongo.Database) *TimeLineRepo {
	return &TimeLineRepo{coll: db.Collection(database.TimeLinesCollection)}
}

func (r *TimeLineRepo) Create(ctx context.Context, t *model.TimeLine) error {
	t.ID = bson.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *TimeLineRepo) GetByID(ctx context.Context, id string) (*model.TimeLine, error) {
	return findByID[model.TimeLine](ctx, r.coll, id)
}

// List returns entries newest first.
func (r *TimeLineRepo) List(ctx context.Context) ([]model.TimeLine, error) {
	return findAll[model.TimeLine](ctx, r.coll, newestFirst)
}

// Update replaces the entry; CreatedAt is carried over from the loaded
// document by the caller.
func (r *TimeLineRepo) Update(ctx context.Context, t *model.TimeLine) error {
	return replaceByID(ctx, r.coll, t.ID, t)
}

func (r *TimeLineRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}
