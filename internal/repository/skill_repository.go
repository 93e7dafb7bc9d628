package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

type SkillRepo struct{ coll *mongo.Collection }

func NewSkillRepo(db *mongo.Database) *SkillRepo {
	return &SkillRepo{coll: db.Collection(database.SkillsCollection)}
}

func (r *SkillRepo) Create(ctx context.Context, s *model.Skill) error {
	s.ID = bson.NewObjectID()
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *SkillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	return findByID[model.Skill](ctx, r.coll, id)
}

func (r *SkillRepo) List(ctx context.Context) ([]model.Skill, error) {
	return findAll[model.Skill](ctx, r.coll, byInsertion)
}

func (r *SkillRepo) Update(ctx context.Context, s *model.Skill) error {
	return replaceByID(ctx, r.coll, s.ID, s)
}

func (r *SkillRepo) Delete(ctx context.Context, id string) (*model.Skill, error) {
	return takeByID[model.Skill](ctx, r.coll, id)
}
