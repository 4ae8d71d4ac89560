package session

import (
	"context"
	"testing"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Load(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("expected absent session, got %+v err=%v", got, err)
	}

	s := model.Session{AccessToken: "tok", ExpiresAt: time.Now().Add(time.Hour), User: model.User{ID: 1, Email: "a@example.com"}}
	if err := store.Save(ctx, "tok", s); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err = store.Load(ctx, "tok")
	if err != nil || got == nil || got.User.Email != "a@example.com" {
		t.Fatalf("unexpected loaded session %+v err=%v", got, err)
	}

	got.User.Email = "mutated@example.com"
	again, _ := store.Load(ctx, "tok")
	if again.User.Email != "a@example.com" {
		t.Fatalf("stored session must not alias the returned copy")
	}

	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
