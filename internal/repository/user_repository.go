package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/model"
)

// UserRepo persists users.  Email uniqueness is enforced by the uniq_email
// index created in database.EnsureIndexes.
type UserRepo struct{ coll *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(database.UsersCollection)}
}

// Create inserts u with a fresh id and timestamps.  The email is normalized
// here as well so every path into the collection agrees on its spelling.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.ID = bson.NewObjectID()
	u.Email = model.NormalizeEmail(u.Email)
	u.CreatedAt, u.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return findByID[model.User](ctx, r.coll, id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"email": model.NormalizeEmail(email)})
}

// UpdateProfile applies the set fields of upd and returns the stored result.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	put := func(key string, v any, ok bool) {
		if ok {
			set[key] = v
		}
	}
	put("firstName", deref(upd.FirstName), upd.FirstName != nil)
	put("lastName", deref(upd.LastName), upd.LastName != nil)
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	put("phone", deref(upd.Phone), upd.Phone != nil)
	put("aboutMe", deref(upd.AboutMe), upd.AboutMe != nil)
	put("portfolio", deref(upd.Portfolio), upd.Portfolio != nil)
	put("githubUrl", deref(upd.GithubURL), upd.GithubURL != nil)
	put("linkedInUrl", deref(upd.LinkedInURL), upd.LinkedInURL != nil)
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.Resume != nil {
		set["resume"] = *upd.Resume
	}

	var out model.User
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePassword stores a new password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}})
}

// SetResetToken records a reset token digest and its expiry in one write.
func (r *UserRepo) SetResetToken(ctx context.Context, id, tokenHash string, exp time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": exp.UTC(),
	}})
}

// ClearResetToken removes both reset fields together.
func (r *UserRepo) ClearResetToken(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$unset": bson.M{
		"resetPasswordToken":  "",
		"resetPasswordExpire": "",
	}})
}

// ConsumeResetToken is a compare-and-clear: the filter matches only an
// unexpired token, and the same single-document update replaces the password
// and removes the token.  A second caller with the same token matches
// nothing.
func (r *UserRepo) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"resetPasswordToken":  tokenHash,
			"resetPasswordExpire": bson.M{"$gt": now.UTC()},
		},
		bson.M{
			"$set":   bson.M{"password": passwordHash, "updatedAt": now.UTC()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
