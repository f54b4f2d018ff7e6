package repository

import (
	"context"

	"musiclib/logger"
	"musiclib/model"
)

// EntryCache stores single entries by ID. A miss is (nil, nil).
type EntryCache interface {
	Get(ctx context.Context, id int64) (*model.MusicEntry, error)
	Set(ctx context.Context, entry *model.MusicEntry) error
	Delete(ctx context.Context, id int64) error
}

// cachedMusicRepository reads single entries through an EntryCache and drops
// them on every write. Cache errors are logged and never fail the call.
type cachedMusicRepository struct {
	next  MusicRepository
	cache EntryCache
}

// NewCachedMusicRepository wraps next with a read-through entry cache.
func NewCachedMusicRepository(next MusicRepository, cache EntryCache) MusicRepository {
	return &cachedMusicRepository{next: next, cache: cache}
}

// FindAll always goes to the store; lists are not cached.
func (r *cachedMusicRepository) FindAll(ctx context.Context) ([]*model.MusicEntry, error) {
	return r.next.FindAll(ctx)
}

func (r *cachedMusicRepository) FindByID(ctx context.Context, id int64) (*model.MusicEntry, error) {
	entry, err := r.cache.Get(ctx, id)
	if err != nil {
		logger.Warn("entry cache read failed", logger.Int64("id", id), logger.ErrorField(err))
	} else if entry != nil {
		return entry, nil
	}

	entry, err = r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, entry); err != nil {
		logger.Warn("entry cache write failed", logger.Int64("id", id), logger.ErrorField(err))
	}
	return entry, nil
}

func (r *cachedMusicRepository) Insert(ctx context.Context, entry *model.MusicEntry) error {
	return r.next.Insert(ctx, entry)
}

// Update and Delete evict again after the write so a read that raced the write
// cannot leave the old row cached.
func (r *cachedMusicRepository) Update(ctx context.Context, entry *model.MusicEntry) error {
	r.evict(ctx, entry.ID)
	defer r.evict(ctx, entry.ID)
	return r.next.Update(ctx, entry)
}

func (r *cachedMusicRepository) Delete(ctx context.Context, id int64) error {
	r.evict(ctx, id)
	defer r.evict(ctx, id)
	return r.next.Delete(ctx, id)
}

func (r *cachedMusicRepository) evict(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, id); err != nil {
		logger.Warn("entry cache eviction failed", logger.Int64("id", id), logger.ErrorField(err))
	}
}
