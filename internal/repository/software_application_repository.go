package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

type SoftwareApplicationRepo struct{ coll *mongo.Collection }

func NewSoftwareApplicationRepo(db *mongo.Database) *SoftwareApplicationRepo {
	return &SoftwareApplicationRepo{coll: db.Collection(database.SoftwareApplicationsCollection)}
}

func (r *SoftwareApplicationRepo) Create(ctx context.Context, a *model.SoftwareApplication) error {
	a.ID = bson.NewObjectID()
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

func (r *SoftwareApplicationRepo) GetByID(ctx context.Context, id string) (*model.SoftwareApplication, error) {
	return findByID[model.SoftwareApplication](ctx, r.coll, id)
}

func (r *SoftwareApplicationRepo) List(ctx context.Context) ([]model.SoftwareApplication, error) {
	return findAll[model.SoftwareApplication](ctx, r.coll, byInsertion)
}

func (r *SoftwareApplicationRepo) Update(ctx context.Context, a *model.SoftwareApplication) error {
	return replaceByID(ctx, r.coll, a.ID, a)
}

func (r *SoftwareApplicationRepo) Delete(ctx context.Context, id string) (*model.SoftwareApplication, error) {
	return takeByID[model.SoftwareApplication](ctx, r.coll, id)
}
