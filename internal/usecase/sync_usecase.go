package usecase

import (
	"context"
	"errors"
	"log"

	"skill-barter/internal/domain/profile"
	"skill-barter/internal/infrastructure/directory"
	"skill-barter/internal/search"

	"github.com/google/uuid"
)

type SyncUsecase interface {
	// SyncAll rebuilds the whole skill index from the user directory.
	SyncAll(ctx context.Context) error
	// SyncUser re-fetches and re-indexes one profile.
	SyncUser(ctx context.Context, userID uuid.UUID) error
}

type Sync struct {
	dir      directory.Client
	index    search.Index
	pageSize int
	logger   *log.Logger
}

func NewSyncUsecase(dir directory.Client, index search.Index, pageSize int, logger *log.Logger) *Sync {
	if pageSize <= 0 {
		pageSize = 100
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sync{dir: dir, index: index, pageSize: pageSize, logger: logger}
}

func (u *Sync) SyncAll(ctx context.Context) error {
	all := make([]profile.SkillProfile, 0)
	for page := 0; ; page++ {
		pg, err := u.dir.ListProfiles(ctx, page, u.pageSize)
		if err != nil {
			return err
		}
		all = append(all, pg.Profiles...)
		if !pg.HasNext || len(pg.Profiles) == 0 {
			break
		}
	}

	if err := u.index.ReplaceAll(ctx, all); err != nil {
		return err
	}
	u.logger.Printf("[Sync] index rebuild complete, %d profiles indexed", len(all))
	return nil
}

func (u *Sync) SyncUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}

	p, err := u.dir.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, directory.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		u.logger.Printf("[Sync] fetch profile failed for user %s: %v", userID, err)
		return ErrInternal
	}

	if err := u.index.PutProfile(ctx, p); err != nil {
		u.logger.Printf("[Sync] index upsert failed for user %s: %v", userID, err)
		return ErrInternal
	}
	return nil
}

var _ SyncUsecase = (*Sync)(nil)
