package cache

import (
	"context"
	"testing"
	"time"

	"musiclib/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestEntryKey(t *testing.T) {
	if got := EntryKey(17); got != "music:entry:17" {
		t.Errorf("EntryKey(17) = %q", got)
	}
}

func TestIsMiss(t *testing.T) {
	if !isMiss(redis.Nil) {
		t.Error("redis.Nil should be a miss")
	}
	if isMiss(context.DeadlineExceeded) {
		t.Error("deadline exceeded is not a miss")
	}
}

// Without a reachable server every call must surface an error rather than a
// silent miss, so the repository decorator can log and fall through.
func TestUnreachableServerReturnsErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisEntryCache(client, time.Minute)
	ctx := context.Background()

	if e, err := c.Get(ctx, 1); err == nil || e != nil {
		t.Errorf("Get = (%v, %v), want error", e, err)
	}
	if err := c.Delete(ctx, 1); err == nil {
		t.Error("Delete should fail without a server")
	}
}

func newMiniredisCache(t *testing.T, ttl time.Duration) (*RedisEntryCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisEntryCache(client, ttl), srv
}

func TestEntryCacheRoundTrip(t *testing.T) {
	c, srv := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	if e, err := c.Get(ctx, 7); err != nil || e != nil {
		t.Fatalf("Get on empty cache = (%v, %v), want miss", e, err)
	}

	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	entry := &model.MusicEntry{
		ID:        7,
		Title:     "Blue in Green",
		Filename:  "blue.mp3",
		OwnerID:   2,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := srv.TTL(EntryKey(7)); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	got, err := c.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Title != entry.Title || got.Filename != entry.Filename || got.OwnerID != entry.OwnerID {
		t.Fatalf("Get = %+v, want %+v", got, entry)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) || !got.UpdatedAt.Equal(entry.UpdatedAt) {
		t.Errorf("timestamps = %v / %v, want %v / %v", got.CreatedAt, got.UpdatedAt, entry.CreatedAt, entry.UpdatedAt)
	}

	if err := c.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if srv.Exists(EntryKey(7)) {
		t.Error("key still present after Delete")
	}
}

func TestEntryCacheDropsCorruptValue(t *testing.T) {
	c, srv := newMiniredisCache(t, time.Minute)
	if err := srv.Set(EntryKey(3), "{not json"); err != nil {
		t.Fatal(err)
	}

	e, err := c.Get(context.Background(), 3)
	if err != nil || e != nil {
		t.Fatalf("Get = (%v, %v), want miss", e, err)
	}
	if srv.Exists(EntryKey(3)) {
		t.Error("corrupt value was not removed")
	}
}

func TestEntryCacheFlush(t *testing.T) {
	c, srv := newMiniredisCache(t, 0)
	ctx := context.Background()

	for id := int64(1); id <= 150; id++ {
		if err := c.Set(ctx, &model.MusicEntry{ID: id, Title: "t", Filename: "f.mp3", OwnerID: 1}); err != nil {
			t.Fatalf("Set %d: %v", id, err)
		}
	}
	if err := srv.Set("session:abc", "keep"); err != nil {
		t.Fatal(err)
	}

	n, err := c.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if n != 150 {
		t.Errorf("Flush removed %d keys, want 150", n)
	}
	if keys := srv.Keys(); len(keys) != 1 || keys[0] != "session:abc" {
		t.Errorf("remaining keys = %v, want [session:abc]", keys)
	}
}
