package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(tokenID string) string { return "mb:session:" + tokenID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestSessionCreateCheckRevoke(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager()

	if err := mgr.Create(ctx, "jti-1", "user-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if store.ttls["mb:session:jti-1"] != time.Hour {
		t.Fatalf("expected ttl to be applied, got %v", store.ttls["mb:session:jti-1"])
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected live session")
	}

	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	ok, err = mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has session after revoke failed: %v", err)
	}
	if ok {
		t.Fatal("revoked session should be gone")
	}
}

func TestHasSessionEmptyTokenID(t *testing.T) {
	mgr, _ := newTestManager()
	ok, err := mgr.HasSession(context.Background(), " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("blank token id should never have a session")
	}
}

func TestCreateRequiresTokenID(t *testing.T) {
	mgr, _ := newTestManager()
	if err := mgr.Create(context.Background(), "", "user-1"); err == nil {
		t.Fatal("expected error for empty token id")
	}
}
