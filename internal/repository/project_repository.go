package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

// ProjectRepo stores portfolio projects.
type ProjectRepo struct{ coll *mongo.Collection }

func NewProjectRepo(db *mongo.Database) *ProjectRepo {
	return &ProjectRepo{coll: db.Collection(database.ProjectsCollection)}
}

func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	p.ID = bson.NewObjectID()
	p.Technologies = model.MergeTags(nil, p.Technologies)
	p.Languages = model.MergeTags(nil, p.Languages)
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return findByID[model.Project](ctx, r.coll, id)
}

// List returns projects in insertion order.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	return findAll[model.Project](ctx, r.coll, byInsertion)
}

// Update replaces the stored document with p.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	return replaceByID(ctx, r.coll, p.ID, p)
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) (*model.Project, error) {
	return takeByID[model.Project](ctx, r.coll, id)
}
