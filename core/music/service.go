// Package music implements the music library resource operations.
//
// Every operation receives the caller explicitly. Read, Update and Delete act on
// an entry that was resolved beforehand; resolution failures are reported by
// Resolve before any operation runs.
//
// There is no ownership check: any authenticated caller may read, change or
// remove any entry, whoever created it.
package music

import (
	"context"

	"musiclib/core/auth"
	"musiclib/logger"
	"musiclib/model"
	"musiclib/repository"
	"musiclib/request"
)

// Service exposes list, create, read, update and delete over a MusicRepository.
type Service struct {
	repo repository.MusicRepository
}

// NewService creates a Service backed by repo.
func NewService(repo repository.MusicRepository) *Service {
	return &Service{repo: repo}
}

// Resolve loads the entry for id. It returns an error wrapping
// repository.ErrNotFound when the entry does not exist.
func (s *Service) Resolve(ctx context.Context, id int64) (*model.MusicEntry, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns every entry in store order. An empty store yields an empty slice.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*model.MusicEntry, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("listed music entries",
		logger.Int64("callerId", caller.UserID),
		logger.Int("count", len(entries)))
	return entries, nil
}

// Create persists a new entry owned by caller.
func (s *Service) Create(ctx context.Context, caller auth.Caller, input *request.StoreMusicRequest) (*model.MusicEntry, error) {
	entry := &model.MusicEntry{
		Title:    input.Title,
		Filename: input.Filename,
		OwnerID:  caller.UserID,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}
	logger.Info("music entry created",
		logger.Int64("id", entry.ID),
		logger.Int64("ownerId", entry.OwnerID))
	return entry, nil
}

// Read returns the resolved entry unchanged.
func (s *Service) Read(ctx context.Context, caller auth.Caller, entry *model.MusicEntry) (*model.MusicEntry, error) {
	return entry, nil
}

// Update overwrites title and filename. ID and owner are left as they are.
func (s *Service) Update(ctx context.Context, caller auth.Caller, entry *model.MusicEntry, input *request.StoreMusicRequest) (*model.MusicEntry, error) {
	updated := *entry
	updated.Title = input.Title
	updated.Filename = input.Filename

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	logger.Info("music entry updated",
		logger.Int64("id", updated.ID),
		logger.Int64("ownerId", updated.OwnerID),
		logger.Int64("callerId", caller.UserID))
	return &updated, nil
}

// Delete removes the resolved entry.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, entry *model.MusicEntry) error {
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return err
	}
	logger.Info("music entry deleted",
		logger.Int64("id", entry.ID),
		logger.Int64("ownerId", entry.OwnerID),
		logger.Int64("callerId", caller.UserID))
	return nil
}
