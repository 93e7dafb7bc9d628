package repotest

import (
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
)

// UserContract checks what every UserRepository must do: one account per
// normalized email, malformed ids reported as not found, and reset tokens
// that can be consumed once and only before they expire.
func UserContract(t *testing.T, r repository.UserRepository) {
	t.Helper()

	t.Run("unique email", func(t *testing.T) {
		ctx := t.Context()
		if err := r.Create(ctx, &model.User{Email: "Ada@Example.com"}); err != nil {
			t.Fatal(err)
		}
		err := r.Create(ctx, &model.User{Email: " ada@example.com "})
		if !errors.Is(err, repository.ErrEmailExists) {
			t.Fatalf("want ErrEmailExists, got %v", err)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		if _, err := r.GetByID(t.Context(), "not-an-id"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("reset token single use", func(t *testing.T) {
		ctx := t.Context()
		u := &model.User{Email: "reset-once@example.com", Password: "old"}
		if err := r.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
		now := time.Now().UTC()
		if err := r.SetResetToken(ctx, u.ID.Hex(), "digest-once", now.Add(time.Minute)); err != nil {
			t.Fatal(err)
		}
		if err := r.ConsumeResetToken(ctx, "digest-once", "new", now); err != nil {
			t.Fatalf("first consume: %v", err)
		}
		if err := r.ConsumeResetToken(ctx, "digest-once", "newer", now); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("replay: %v", err)
		}
		got, err := r.GetByID(ctx, u.ID.Hex())
		if err != nil {
			t.Fatal(err)
		}
		if got.Password != "new" || got.ResetPasswordToken != "" || got.ResetPasswordExpire != nil {
			t.Fatalf("unexpected user state: %+v", got)
		}
	})

	t.Run("expired reset token", func(t *testing.T) {
		ctx := t.Context()
		u := &model.User{Email: "reset-late@example.com", Password: "old"}
		if err := r.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
		now := time.Now().UTC()
		if err := r.SetResetToken(ctx, u.ID.Hex(), "digest-late", now.Add(-time.Second)); err != nil {
			t.Fatal(err)
		}
		if err := r.ConsumeResetToken(ctx, "digest-late", "new", now); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("got %v", err)
		}
		got, _ := r.GetByID(ctx, u.ID.Hex())
		if got == nil || got.Password != "old" {
			t.Fatalf("password changed by expired token: %+v", got)
		}
	})
}

// MessageContract checks newest-first listing and not-found deletes on an
// empty repository.
func MessageContract(t *testing.T, r repository.MessageRepository) {
	t.Helper()

	t.Run("newest first", func(t *testing.T) {
		ctx := t.Context()
		for _, s := range []string{"first", "second", "third"} {
			if err := r.Create(ctx, &model.Message{SenderName: "Ada", Subject: s, Message: "hello"}); err != nil {
				t.Fatal(err)
			}
		}
		got, err := r.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 || got[0].Subject != "third" || got[2].Subject != "first" {
			t.Fatalf("unexpected order: %+v", got)
		}
	})

	t.Run("delete unknown", func(t *testing.T) {
		ctx := t.Context()
		if err := r.Delete(ctx, "zz"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("malformed id: %v", err)
		}
		if err := r.Delete(ctx, "64b7f0c2e4b0a1a2b3c4d5e6"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("unknown id: %v", err)
		}
	})
}
