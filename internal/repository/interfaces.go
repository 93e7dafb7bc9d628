package repository

import (
	"context"
	"time"

	"github.com/iliyamo/portfolio-backend/internal/model"
)

// Ids cross this boundary as hex strings; implementations map malformed ids
// to ErrNotFound.

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, upd model.ProfileUpdate) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, exp time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// ConsumeResetToken atomically swaps in passwordHash and clears the reset
	// fields on the one user whose unexpired token digest equals tokenHash.
	// It returns ErrNotFound when nothing matched.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context) ([]model.Message, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id string) (*model.Project, error)
}

type SkillRepository interface {
	Create(ctx context.Context, s *model.Skill) error
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	List(ctx context.Context) ([]model.Skill, error)
	Update(ctx context.Context, s *model.Skill) error
	Delete(ctx context.Context, id string) (*model.Skill, error)
}

type SoftwareApplicationRepository interface {
	Create(ctx context.Context, a *model.SoftwareApplication) error
	GetByID(ctx context.Context, id string) (*model.SoftwareApplication, error)
	List(ctx context.Context) ([]model.SoftwareApplication, error)
	Update(ctx context.Context, a *model.SoftwareApplication) error
	Delete(ctx context.Context, id string) (*model.SoftwareApplication, error)
}

type TimeLineRepository interface {
	Create(ctx context.Context, t *model.TimeLine) error
	GetByID(ctx context.Context, id string) (*model.TimeLine, error)
	List(ctx context.Context) ([]model.TimeLine, error)
	Update(ctx context.Context, t *model.TimeLine) error
	Delete(ctx context.Context, id string) error
}
