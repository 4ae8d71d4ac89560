package session

import (
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/membership/internal/config"
)

func TestNewStoreSelectsBackend(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	store, err := newStore(storeParams{Lifecycle: lc, Config: &config.Config{SessionStore: config.SessionStoreMemory}, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("newStore returned error: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	store, err = newStore(storeParams{Lifecycle: lc, Config: &config.Config{SessionStore: config.SessionStoreRedis, RedisAddr: "localhost:0"}, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("newStore returned error: %v", err)
	}
	if _, ok := store.(*RedisStore); !ok {
		t.Fatalf("expected redis store, got %T", store)
	}

	if _, err := newStore(storeParams{Lifecycle: lc, Config: &config.Config{SessionStore: "disk"}, Logger: discardLogger()}); err == nil {
		t.Fatal("expected error for unknown session store")
	}
}
