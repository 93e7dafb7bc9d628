// Package repotest provides in-memory repositories for handler and service
// tests, and contract checks that every repository implementation must pass.
package repotest

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
)

var (
	_ repository.UserRepository                = (*Users)(nil)
	_ repository.MessageRepository             = (*Messages)(nil)
	_ repository.ProjectRepository             = (*Projects)(nil)
	_ repository.SkillRepository               = (*Skills)(nil)
	_ repository.SoftwareApplicationRepository = (*SoftwareApplications)(nil)
	_ repository.TimeLineRepository            = (*TimeLines)(nil)
)

func objectID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, repository.ErrNotFound
	}
	return id, nil
}

type table[T any] struct {
	mu   sync.RWMutex
	rows []T
	id   func(*T) bson.ObjectID
}

func (t *table[T]) insert(v T) {
	t.mu.Lock()
	t.rows = append(t.rows, v)
	t.mu.Unlock()
}

func (t *table[T]) indexOf(id bson.ObjectID) int {
	for i := range t.rows {
		if t.id(&t.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) get(hex string) (*T, error) {
	id, err := objectID(hex)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(id); i >= 0 {
		v := t.rows[i]
		return &v, nil
	}
	return nil, repository.ErrNotFound
}

func (t *table[T]) list(newest bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, len(t.rows))
	if !newest {
		copy(out, t.rows)
		return out
	}
	for i, v := range t.rows {
		out[len(t.rows)-1-i] = v
	}
	return out
}

func (t *table[T]) replace(v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(t.id(&v))
	if i < 0 {
		return repository.ErrNotFound
	}
	t.rows[i] = v
	return nil
}

func (t *table[T]) take(hex string) (*T, error) {
	id, err := objectID(hex)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	v := t.rows[i]
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return &v, nil
}

// Users is an in-memory UserRepository.
type Users struct{ t table[model.User] }

func NewUsers() *Users {
	return &Users{t: table[model.User]{id: func(u *model.User) bson.ObjectID { return u.ID }}}
}

func (r *Users) Create(_ context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, row := range r.t.rows {
		if row.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	now := time.Now().UTC()
	u.ID = bson.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	r.t.rows = append(r.t.rows, *u)
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.t.get(id)
}

func (r *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, row := range r.t.rows {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

// mutate runs fn on the stored user under the write lock.
func (r *Users) mutate(hex string, fn func(u *model.User)) (*model.User, error) {
	id, err := objectID(hex)
	if err != nil {
		return nil, err
	}
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	i := r.t.indexOf(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	fn(&r.t.rows[i])
	out := r.t.rows[i]
	return &out, nil
}

func (r *Users) UpdateProfile(_ context.Context, id string, upd model.ProfileUpdate) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		upd.Apply(u)
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *Users) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := r.mutate(id, func(u *model.User) { u.Password = passwordHash })
	return err
}

func (r *Users) SetResetToken(_ context.Context, id, tokenHash string, exp time.Time) error {
	_, err := r.mutate(id, func(u *model.User) {
		u.ResetPasswordToken = tokenHash
		u.ResetPasswordExpire = &exp
	})
	return err
}

func (r *Users) ClearResetToken(_ context.Context, id string) error {
	_, err := r.mutate(id, func(u *model.User) {
		u.ResetPasswordToken = ""
		u.ResetPasswordExpire = nil
	})
	return err
}

func (r *Users) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for i := range r.t.rows {
		u := &r.t.rows[i]
		if tokenHash == "" || u.ResetPasswordToken != tokenHash {
			continue
		}
		if u.ResetPasswordExpire == nil || !u.ResetPasswordExpire.After(now) {
			return repository.ErrNotFound
		}
		u.Password = passwordHash
		u.ResetPasswordToken = ""
		u.ResetPasswordExpire = nil
		return nil
	}
	return repository.ErrNotFound
}

// Messages is an in-memory MessageRepository.
type Messages struct{ t table[model.Message] }

func NewMessages() *Messages {
	return &Messages{t: table[model.Message]{id: func(m *model.Message) bson.ObjectID { return m.ID }}}
}

func (r *Messages) Create(_ context.Context, m *model.Message) error {
	m.ID = bson.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	r.t.insert(*m)
	return nil
}

func (r *Messages) GetByID(_ context.Context, id string) (*model.Message, error) {
	return r.t.get(id)
}

func (r *Messages) List(context.Context) ([]model.Message, error) {
	return r.t.list(true), nil
}

func (r *Messages) Delete(_ context.Context, id string) error {
	_, err := r.t.take(id)
	return err
}

// Projects is an in-memory ProjectRepository.
type Projects struct{ t table[model.Project] }

func NewProjects() *Projects {
	return &Projects{t: table[model.Project]{id: func(p *model.Project) bson.ObjectID { return p.ID }}}
}

func (r *Projects) Create(_ context.Context, p *model.Project) error {
	p.ID = bson.NewObjectID()
	p.Technologies = model.MergeTags(nil, p.Technologies)
	p.Languages = model.MergeTags(nil, p.Languages)
	r.t.insert(*p)
	return nil
}

func (r *Projects) GetByID(_ context.Context, id string) (*model.Project, error) {
	return r.t.get(id)
}

func (r *Projects) List(context.Context) ([]model.Project, error) {
	return r.t.list(false), nil
}

func (r *Projects) Update(_ context.Context, p *model.Project) error {
	return r.t.replace(*p)
}

func (r *Projects) Delete(_ context.Context, id string) (*model.Project, error) {
	return r.t.take(id)
}

// Skills is an in-memory SkillRepository.
type Skills struct{ t table[model.Skill] }

func NewSkills() *Skills {
	return &Skills{t: table[model.Skill]{id: func(s *model.Skill) bson.ObjectID { return s.ID }}}
}

func (r *Skills) Create(_ context.Context, s *model.Skill) error {
	s.ID = bson.NewObjectID()
	r.t.insert(*s)
	return nil
}

func (r *Skills) GetByID(_ context.Context, id string) (*model.Skill, error) {
	return r.t.get(id)
}

func (r *Skills) List(context.Context) ([]model.Skill, error) {
	return r.t.list(false), nil
}

func (r *Skills) Update(_ context.Context, s *model.Skill) error {
	return r.t.replace(*s)
}

func (r *Skills) Delete(_ context.Context, id string) (*model.Skill, error) {
	return r.t.take(id)
}

// SoftwareApplications is an in-memory SoftwareApplicationRepository.
type SoftwareApplications struct{ t table[model.SoftwareApplication] }

func NewSoftwareApplications() *SoftwareApplications {
	return &SoftwareApplications{t: table[model.SoftwareApplication]{
		id: func(a *model.SoftwareApplication) bson.ObjectID { return a.ID },
	}}
}

func (r *SoftwareApplications) Create(_ context.Context, a *model.SoftwareApplication) error {
	a.ID = bson.NewObjectID()
	r.t.insert(*a)
	return nil
}

func (r *SoftwareApplications) GetByID(_ context.Context, id string) (*model.SoftwareApplication, error) {
	return r.t.get(id)
}

func (r *SoftwareApplications) List(context.Context) ([]model.SoftwareApplication, error) {
	return r.t.list(false), nil
}

func (r *SoftwareApplications) Update(_ context.Context, a *model.SoftwareApplication) error {
	return r.t.replace(*a)
}

func (r *SoftwareApplications) Delete(_ context.Context, id string) (*model.SoftwareApplication, error) {
	return r.t.take(id)
}

// TimeLines is an in-memory TimeLineRepository.
type TimeLines struct{ t table[model.TimeLine] }

func NewTimeLines() *TimeLines {
	return &TimeLines{t: table[model.TimeLine]{id: func(t *model.TimeLine) bson.ObjectID { return t.ID }}}
}

func (r *TimeLines) Create(_ context.Context, t *model.TimeLine) error {
	t.ID = bson.NewObjectID()
	t.CreatedAt = time.Now().UTC()
	r.t.insert(*t)
	return nil
}

func (r *TimeLines) GetByID(_ context.Context, id string) (*model.TimeLine, error) {
	return r.t.get(id)
}

func (r *TimeLines) List(context.Context) ([]model.TimeLine, error) {
	return r.t.list(true), nil
}

func (r *TimeLines) Update(_ context.Context, t *model.TimeLine) error {
	return r.t.replace(*t)
}

func (r *TimeLines) Delete(_ context.Context, id string) error {
	_, err := r.t.take(id)
	return err
}
