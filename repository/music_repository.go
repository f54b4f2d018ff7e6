package repository

import (
	"context"
	"errors"
	"fmt"

	"musiclib/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an identifier does not resolve to an entry.
var ErrNotFound = errors.New("music entry not found")

// MusicRepository defines the persistence operations for music entries.
type MusicRepository interface {
	FindAll(ctx context.Context) ([]*model.MusicEntry, error)
	FindByID(ctx context.Context, id int64) (*model.MusicEntry, error)
	Insert(ctx context.Context, entry *model.MusicEntry) error
	Update(ctx context.Context, entry *model.MusicEntry) error
	Delete(ctx context.Context, id int64) error
}

// gormMusicRepository implements MusicRepository with GORM.
type gormMusicRepository struct {
	db *gorm.DB
}

// NewGormMusicRepository creates a MusicRepository backed by db.
func NewGormMusicRepository(db *gorm.DB) MusicRepository {
	return &gormMusicRepository{db: db}
}

// FindAll returns every entry in store-native order. No pagination.
func (r *gormMusicRepository) FindAll(ctx context.Context) ([]*model.MusicEntry, error) {
	entries := make([]*model.MusicEntry, 0)
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query music entries: %w", err)
	}
	return entries, nil
}

func (r *gormMusicRepository) FindByID(ctx context.Context, id int64) (*model.MusicEntry, error) {
	var entry model.MusicEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("music entry %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load music entry %d: %w", id, err)
	}
	return &entry, nil
}

// Insert persists entry and fills in its ID and timestamps.
func (r *gormMusicRepository) Insert(ctx context.Context, entry *model.MusicEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to insert music entry: %w", err)
	}
	return nil
}

// Update writes title and filename only. The owner column is never touched.
func (r *gormMusicRepository) Update(ctx context.Context, entry *model.MusicEntry) error {
	res := r.db.WithContext(ctx).
		Model(entry).
		Select("title", "filename", "updated_at").
		Updates(map[string]interface{}{
			"title":    entry.Title,
			"filename": entry.Filename,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update music entry %d: %w", entry.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("music entry %d: %w", entry.ID, ErrNotFound)
	}
	return nil
}

func (r *gormMusicRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.MusicEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete music entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("music entry %d: %w", id, ErrNotFound)
	}
	return nil
}
