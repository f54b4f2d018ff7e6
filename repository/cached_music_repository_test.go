package repository

import (
	"context"
	"errors"
	"testing"

	"musiclib/model"
)

type memoryCache struct {
	entries map[int64]model.MusicEntry
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[int64]model.MusicEntry)}
}

func (c *memoryCache) Get(_ context.Context, id int64) (*model.MusicEntry, error) {
	if c.failGet {
		return nil, errors.New("cache down")
	}
	e, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *memoryCache) Set(_ context.Context, entry *model.MusicEntry) error {
	c.entries[entry.ID] = *entry
	return nil
}

func (c *memoryCache) Delete(_ context.Context, id int64) error {
	delete(c.entries, id)
	return nil
}

type countingRepository struct {
	MusicRepository
	finds int
}

func (r *countingRepository) FindByID(ctx context.Context, id int64) (*model.MusicEntry, error) {
	r.finds++
	return r.MusicRepository.FindByID(ctx, id)
}

func TestCachedFindByID(t *testing.T) {
	gdb := newTestDB(t)
	owner := seedUser(t, gdb, "alice")
	base := &countingRepository{MusicRepository: NewGormMusicRepository(gdb)}
	cache := newMemoryCache()
	repo := NewCachedMusicRepository(base, cache)
	ctx := context.Background()

	entry := &model.MusicEntry{Title: "Song A", Filename: "a.mp3", OwnerID: owner}
	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := repo.FindByID(ctx, entry.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if got.Title != "Song A" {
			t.Fatalf("Title = %q", got.Title)
		}
	}
	if base.finds != 1 {
		t.Errorf("store hit %d times, want 1", base.finds)
	}

	entry.Title = "Song B"
	if err := repo.Update(ctx, entry); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := cache.entries[entry.ID]; ok {
		t.Error("update did not evict the cached entry")
	}
	got, err := repo.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "Song B" {
		t.Errorf("Title after update = %q, want Song B", got.Title)
	}

	if err := repo.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete err = %v, want ErrNotFound", err)
	}
}

func TestCachedFindByIDFallsThroughOnCacheError(t *testing.T) {
	gdb := newTestDB(t)
	owner := seedUser(t, gdb, "alice")
	cache := newMemoryCache()
	cache.failGet = true
	repo := NewCachedMusicRepository(NewGormMusicRepository(gdb), cache)
	ctx := context.Background()

	entry := &model.MusicEntry{Title: "Song A", Filename: "a.mp3", OwnerID: owner}
	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := repo.FindByID(ctx, entry.ID); err != nil {
		t.Fatalf("FindByID with failing cache: %v", err)
	}
}

// racingRepository reads through the cache right before each write reaches the
// store, as a concurrent request would.
type racingRepository struct {
	MusicRepository
	cached MusicRepository
}

func (r *racingRepository) Update(ctx context.Context, entry *model.MusicEntry) error {
	r.cached.FindByID(ctx, entry.ID)
	return r.MusicRepository.Update(ctx, entry)
}

func (r *racingRepository) Delete(ctx context.Context, id int64) error {
	r.cached.FindByID(ctx, id)
	return r.MusicRepository.Delete(ctx, id)
}

func TestCachedWritesDropEntryReadDuringWrite(t *testing.T) {
	gdb := newTestDB(t)
	owner := seedUser(t, gdb, "alice")
	base := &racingRepository{MusicRepository: NewGormMusicRepository(gdb)}
	cache := newMemoryCache()
	repo := NewCachedMusicRepository(base, cache)
	base.cached = repo
	ctx := context.Background()

	entry := &model.MusicEntry{Title: "Song A", Filename: "a.mp3", OwnerID: owner}
	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	updated := *entry
	updated.Title = "Song B"
	if err := repo.Update(ctx, &updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID after update: %v", err)
	}
	if got.Title != "Song B" {
		t.Errorf("Title after update = %q, want Song B", got.Title)
	}

	if err := repo.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if e, err := repo.FindByID(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID after delete = (%+v, %v), want ErrNotFound", e, err)
	}
}
