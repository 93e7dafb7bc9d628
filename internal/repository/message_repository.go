package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

// MessageRepo stores contact-form submissions.  There is no update path.
type MessageRepo struct{ coll *mongo.Collection }

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	return &MessageRepo{coll: db.Collection(database.MessagesCollection)}
}

// Create stamps the id and creation time; both are fixed from then on.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	m.ID = bson.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	return findByID[model.Message](ctx, r.coll, id)
}

// List returns all messages newest first.
func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	return findAll[model.Message](ctx, r.coll, newestFirst)
}

func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id)
}
